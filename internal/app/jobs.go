package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/pkg/metrics"
	"github.com/bistrokit/bistrokit/pkg/qrlink"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	a.sched = cron.New(cron.WithLocation(a.location), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedSweepOrphanedImages()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Collect CPU usage
	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	// Collect memory usage
	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	// Collect process CPU usage
	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("bistrokit_cpuuse", int64(cpuuse*100)) // Store as percentage * 100
	}

	// Collect process memory usage
	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("bistrokit_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedSweepOrphanedImages removes upload-dir files no menu item, event or
// popup references anymore. Thumbnails follow their originals.
func (a *Application) SchedSweepOrphanedImages() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	dir := a.appConfig.Web.UploadDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	referenced := map[string]bool{qrlink.MainQRName: true}
	var names []string
	a.gormDB.Model(&domain.MenuItem{}).Where("image_filename <> ''").Pluck("image_filename", &names)
	for _, n := range names {
		referenced[n] = true
	}
	names = names[:0]
	a.gormDB.Model(&domain.Event{}).Where("image <> ''").Pluck("image", &names)
	for _, n := range names {
		referenced[n] = true
	}
	names = names[:0]
	a.gormDB.Model(&domain.Popup{}).Where("image_filename <> ''").Pluck("image_filename", &names)
	for _, n := range names {
		referenced[n] = true
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if referenced[name] {
			continue
		}
		// A thumbnail lives as <base>_thumb.<ext>; keep it while its original
		// is referenced.
		if base, ok := thumbOriginal(name); ok && referenced[base] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err == nil {
			removed++
		}
	}
	if removed > 0 {
		zap.S().Infof("image sweep removed %d orphaned files", removed)
	}
}

func thumbOriginal(name string) (string, bool) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if !strings.HasSuffix(stem, "_thumb") {
		return "", false
	}
	return strings.TrimSuffix(stem, "_thumb") + ext, true
}
