package pm

import (
	"fmt"
	"sync"

	"github.com/najoast/kipc/kerror"
)

// Process records an allocated identifier.
type Process struct {
	// PID is the allocated identifier
	PID ProcessIdentifier

	// Name is the process name (optional)
	Name string
}

// String returns a string representation of the process.
func (p Process) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%s(%s)", p.PID, p.Name)
	}
	return p.PID.String()
}

// Allocator hands out process identifiers for one kernel instance.
type Allocator struct {
	mu sync.RWMutex

	// Maps identifier to process
	processes map[ProcessIdentifier]*Process

	// Maps name to identifier
	nameToPID map[string]ProcessIdentifier

	// Next local number to try
	next uint32

	// Kernel instance this allocator serves
	kernelID uint8
}

// NewAllocator creates a new Allocator for the given kernel instance.
func NewAllocator(kernelID uint8) *Allocator {
	return &Allocator{
		processes: make(map[ProcessIdentifier]*Process),
		nameToPID: make(map[string]ProcessIdentifier),
		next:      1, // local 0 of kernel 0 is the kernel sentinel
		kernelID:  kernelID,
	}
}

// KernelID returns the kernel instance this allocator serves.
func (a *Allocator) KernelID() uint8 {
	return a.kernelID
}

// Allocate reserves a new identifier.
func (a *Allocator) Allocate(name string) (ProcessIdentifier, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if name != "" {
		if _, exists := a.nameToPID[name]; exists {
			return 0, kerror.Errorf(kerror.InvalidArgument, "process name '%s' already exists", name)
		}
	}

	for tries := uint32(0); tries < MaxLocal; tries++ {
		local := a.next
		a.next++
		if a.next > MaxLocal {
			a.next = 1
		}

		pid, err := NewProcessIdentifier(a.kernelID, local)
		if err != nil {
			return 0, err
		}
		if _, used := a.processes[pid]; used {
			continue
		}

		a.processes[pid] = &Process{PID: pid, Name: name}
		if name != "" {
			a.nameToPID[name] = pid
		}
		return pid, nil
	}

	return 0, kerror.New(kerror.OperationNotSupported, "process identifier space exhausted")
}

// Lookup retrieves a process by name.
func (a *Allocator) Lookup(name string) (ProcessIdentifier, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	pid, exists := a.nameToPID[name]
	return pid, exists
}

// Get retrieves a process by identifier.
func (a *Allocator) Get(pid ProcessIdentifier) (Process, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if p, exists := a.processes[pid]; exists {
		return *p, true
	}
	return Process{}, false
}

// Release frees an identifier and its name.
func (a *Allocator) Release(pid ProcessIdentifier) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, exists := a.processes[pid]
	if !exists {
		return kerror.Errorf(kerror.InvalidArgument, "process %s not found", pid)
	}

	delete(a.processes, pid)
	if p.Name != "" {
		delete(a.nameToPID, p.Name)
	}
	return nil
}

// List returns all allocated processes.
func (a *Allocator) List() []Process {
	a.mu.RLock()
	defer a.mu.RUnlock()

	processes := make([]Process, 0, len(a.processes))
	for _, p := range a.processes {
		processes = append(processes, *p)
	}
	return processes
}
