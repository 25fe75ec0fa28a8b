package jiggler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrCleanupTimeout is included in Shutdown's error when resources were still
// being released when the timeout expired.
var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// CleanupResource is something released at shutdown.
type CleanupResource interface {
	Cleanup() error
	Name() string
}

// CleanupFunc adapts a function to CleanupResource.
type CleanupFunc struct {
	name string
	fn   func() error
}

func (c *CleanupFunc) Cleanup() error {
	return c.fn()
}

func (c *CleanupFunc) Name() string {
	return c.name
}

// CleanupManager releases registered resources once, newest first, within a
// timeout.
type CleanupManager struct {
	mu        sync.Mutex
	resources []CleanupResource
	timeout   time.Duration
	once      sync.Once
	err       error
}

// NewCleanupManager creates a manager. A non-positive timeout means 5s.
func NewCleanupManager(timeout time.Duration) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CleanupManager{timeout: timeout}
}

// Register adds a resource.
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers a cleanup function under name.
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.Register(&CleanupFunc{name: name, fn: fn})
}

// RegisterController stops ctrl and waits up to half the manager's timeout
// for its loop to exit.
func (cm *CleanupManager) RegisterController(ctrl *Controller) {
	cm.RegisterFunc("jiggler", func() error {
		return ctrl.StopAndWait(cm.timeout / 2)
	})
}

// Shutdown runs every cleanup in reverse registration order. Later calls
// return the first call's result.
func (cm *CleanupManager) Shutdown() error {
	cm.once.Do(func() {
		cm.err = cm.run()
	})
	return cm.err
}

func (cm *CleanupManager) run() error {
	cm.mu.Lock()
	resources := make([]CleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	done := make(chan struct{})
	var mu sync.Mutex
	var errs []error

	go func() {
		defer close(done)
		for i := len(resources) - 1; i >= 0; i-- {
			err := cleanupOne(resources[i])
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("cleanup: timeout after %v, some resources may not have been released", cm.timeout)
		mu.Lock()
		errs = append(errs, ErrCleanupTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}

func cleanupOne(resource CleanupResource) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cleanup: panic releasing %s: %v", resource.Name(), r)
			err = fmt.Errorf("%s: panic during cleanup: %v", resource.Name(), r)
		}
	}()

	if err := resource.Cleanup(); err != nil {
		log.Printf("cleanup: error releasing %s: %v", resource.Name(), err)
		return fmt.Errorf("%s: %w", resource.Name(), err)
	}
	log.Printf("cleanup: released %s", resource.Name())
	return nil
}
