package stt_test

import (
	"github.com/escutaai/escuta/adapters/stt"
	"github.com/escutaai/escuta/domain/repositories"
)

var _ repositories.Transcriber = &stt.GoogleSpeechToText{}
