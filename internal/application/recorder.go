package app

import "time"

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, string, time.Duration) {}
func (nopRecorder) ObserveDescribe(string, time.Duration)        {}
func (nopRecorder) ObserveFallback(string, string)               {}
