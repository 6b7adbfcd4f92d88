package ui

import (
	"clipsmith/internal/model"
	"clipsmith/internal/progress"
)

type filesDiscoveredMsg struct {
	Files []string
	Err   error
}

type probedMsg struct {
	Descs []model.MediaDescriptor
	Err   error
}

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}
