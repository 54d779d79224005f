package rpc

import (
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage reports host and process resource usage of the node
func (s *Server) ResourceUsage(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	usage, err := s.resourceUsage()
	if err != nil {
		s.logger.Error(err.Error())
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	write(w, usage, http.StatusOK)
}

func (s *Server) resourceUsage() (*ResourceUsageResult, error) {
	vm, err := mem.VirtualMemory() // os memory
	if err != nil {
		return nil, err
	}
	cp, err := cpu.Percent(0, false) // os cpu percent
	if err != nil {
		return nil, err
	}
	dirPath := s.config.DataDirPath
	if _, e := os.Stat(dirPath); e != nil {
		dirPath = "/"
	}
	d, err := disk.Usage(dirPath) // disk holding the database
	if err != nil {
		return nil, err
	}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return nil, err
	}
	numThreads, err := p.NumThreads()
	if err != nil {
		return nil, err
	}
	procCPU, err := p.CPUPercent()
	if err != nil {
		return nil, err
	}
	result := &ResourceUsageResult{
		Process: ProcessResourceUsage{
			Pid:         p.Pid,
			RSS:         memInfo.RSS,
			ThreadCount: uint64(numThreads),
			CPUPercent:  procCPU,
		},
		System: SystemResourceUsage{
			TotalRAM:        vm.Total,
			AvailableRAM:    vm.Available,
			UsedRAMPercent:  vm.UsedPercent,
			TotalDisk:       d.Total,
			FreeDisk:        d.Free,
			UsedDiskPercent: d.UsedPercent,
		},
	}
	if len(cp) != 0 {
		result.System.UsedCPUPercent = cp[0]
	}
	return result, nil
}
