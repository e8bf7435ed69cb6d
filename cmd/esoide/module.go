package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/esoide/debugs"
	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/outputs"
	"github.com/reusee/esoide/runners"
	"github.com/reusee/esoide/visualisers"
)

type Module struct {
	dscope.Module
	Logs        logs.Module
	Configs     ideconfigs.Module
	Outputs     outputs.Module
	Runners     runners.Module
	Visualisers visualisers.Module
	Debugs      debugs.Module
}
