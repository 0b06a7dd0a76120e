package platform

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"os/user"
	"time"
)

// ErrAlreadyRunning indicates another countdown window already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	minGuardPort = 20000
	maxGuardPort = 39999

	ownerDialTimeout = 250 * time.Millisecond
)

// InstanceGuard holds the single-instance lock for the lifetime of the app.
// The lock is a loopback listener; nothing is ever accepted on it.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireSingleInstance claims the lock for appName and the current user.
// ErrAlreadyRunning is returned only when a live owner answers on the port;
// any other bind failure is reported as is.
func AcquireSingleInstance(ctx context.Context, appName string) (*InstanceGuard, error) {
	return acquireGuard(ctx, guardAddress(appName, currentOwner()))
}

func acquireGuard(ctx context.Context, address string) (*InstanceGuard, error) {
	var config net.ListenConfig
	listener, err := config.Listen(ctx, "tcp", address)
	if err == nil {
		return &InstanceGuard{listener: listener}, nil
	}
	if ownerAnswers(ctx, address) {
		return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, address)
	}
	return nil, fmt.Errorf("bind instance guard %s: %w", address, err)
}

func ownerAnswers(ctx context.Context, address string) bool {
	dialer := net.Dialer{Timeout: ownerDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Release frees the lock. It is safe on a nil guard and idempotent.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	listener := guard.listener
	guard.listener = nil
	return listener.Close()
}

// Address returns the bound address, or "" once released.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

// currentOwner names the desktop user so two accounts on one machine do not
// block each other.
func currentOwner() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return ""
}

func guardAddress(appName, owner string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(owner))
	span := uint32(maxGuardPort - minGuardPort + 1)
	port := minGuardPort + int(hash.Sum32()%span)
	return net.JoinHostPort("127.0.0.1", fmt.Sprint(port))
}
