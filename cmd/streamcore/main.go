// Command streamcore boots the runtime: loads configuration, starts
// the Task Manager, and brings up the Processor Engine's mode 0 ready
// for chains to be registered (by an embedding application or by
// plugins loaded from -plugin).
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kappasdr/streamcore/cmn/cos"
	"github.com/kappasdr/streamcore/cmn/nlog"
	"github.com/kappasdr/streamcore/config"
	"github.com/kappasdr/streamcore/connector"
	"github.com/kappasdr/streamcore/engine"
	"github.com/kappasdr/streamcore/memory"
	"github.com/kappasdr/streamcore/plugin"
	"github.com/kappasdr/streamcore/task"
)

var (
	configPath string
	pluginPath string
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to a JSON configuration file (defaults built in if omitted)")
	flag.StringVar(&pluginPath, "plugin", "", "optional plugin (.so) to load at startup")
}

func main() {
	installSignalHandler()
	flag.Parse()

	conf := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			cos.ExitLogf("failed to load configuration from %q: %v", configPath, err)
		}
		conf = loaded
	}
	if conf.Log.Dir != "" {
		nlog.SetLogDirRole(conf.Log.Dir, "streamcore")
	}
	if conf.Connector.DefaultCapacity > 0 {
		connector.SetDefaultCapacity(conf.Connector.DefaultCapacity)
	}

	taskMgr := task.Default()
	taskMgr.SetUpdateInterval(conf.TaskUpdateInterval())
	taskMgr.SetStatisticsInterval(conf.TaskStatisticsInterval())
	taskMgr.EnableStatisticsSending(conf.Task.SendStatistics)

	mem := memory.Get()
	pm := engine.NewManager(mem, taskMgr)
	defaultMode := engine.NewMode("default", taskMgr)
	pm.AddMode(0, defaultMode)

	pluginBlocks := engine.NewEngine()
	reg := plugin.NewRegistry()
	if pluginPath != "" {
		mod, err := reg.LoadAndRegister(pluginPath)
		if err != nil {
			cos.ExitLogf("failed to load plugin %q: %v", pluginPath, err)
		}
		nlog.Infof("loaded plugin %s %s (%s)", mod.Descriptor.Name, mod.Descriptor.Version, mod.Descriptor.Description)

		// Auto-instantiate one instance of every block type the plugin
		// advertises, each under a randomly generated instance name,
		// and chain them in declaration order.
		chain := engine.NewChain(mod.Descriptor.Name)
		for i, blockType := range mod.Descriptor.Provides {
			proc, err := mod.NewAutoNamed(blockType)
			if err != nil {
				cos.ExitLogf("failed to instantiate plugin block %q: %v", blockType, err)
			}
			regName := fmt.Sprintf("%s.%s.%d", mod.Descriptor.Name, blockType, i)
			if err := pluginBlocks.Register(regName, proc); err != nil {
				cos.ExitLogf("failed to register plugin block %q: %v", regName, err)
			}
			chain.AddProcessor(proc)
		}
		if chain.Len() > 0 {
			if err := pluginBlocks.Init(); err != nil {
				cos.ExitLogf("failed to init plugin blocks: %v", err)
			}
			defaultMode.AddChain(chain)
		}
	}

	if err := pm.SwitchMode(0); err != nil {
		cos.ExitLogf("failed to start mode 0: %v", err)
	}
	nlog.Infof("streamcore runtime up, mode 0 active")

	waitForShutdown()

	if err := pm.Stop(); err != nil {
		nlog.Errorf("error stopping processor manager: %v", err)
	}
	taskMgr.Stop()
	nlog.Flush(true)
}

var shutdown = make(chan os.Signal, 1)

func installSignalHandler() {
	signal.Notify(shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
}

func waitForShutdown() {
	<-shutdown
	nlog.Infof("shutdown signal received")
}
