package config

import (
	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
)

type stubDetector string

func (s stubDetector) ID() string { return string(s) }

func (s stubDetector) Describe() a11y.RuleInfo { return a11y.RuleInfo{ID: string(s)} }

func (s stubDetector) Detect(*dom.Document, *a11y.Env) []a11y.Issue { return nil }
