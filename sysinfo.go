package main

import (
	"log"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// printSysConfig logs the runtime and host configuration the run
// executes under. Failed probes are logged and skipped; none are fatal.
func printSysConfig() {
	log.Printf("%-35s = %s", "GO_VERSION", runtime.Version())
	log.Printf("%-35s = %d", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	if hi, err := host.Info(); err == nil {
		log.Printf("%-35s = %s", "HOSTNAME", hi.Hostname)
		log.Printf("%-35s = %s %s", "OS", hi.Platform, hi.PlatformVersion)
	} else {
		log.Printf("host info unavailable: %v", err)
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		log.Printf("%-35s = %s", "CPU_MODEL", infos[0].ModelName)
	} else if err != nil {
		log.Printf("cpu info unavailable: %v", err)
	}
	if count, err := cpu.Counts(true); err == nil {
		log.Printf("%-35s = %d", "LOGICAL_CPUS", count)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		log.Printf("%-35s = %d MiB", "TOTAL_MEMORY", vm.Total/(1024*1024))
	} else {
		log.Printf("memory info unavailable: %v", err)
	}
}
