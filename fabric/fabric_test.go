package fabric

import (
	"errors"
	"testing"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/device"
)

func TestConnectRejectsSelfLoop(t *testing.T) {
	n := NewNetwork(nil)
	n.Register(device.NewRepeater("r", 1))
	err := n.Connect(1, 0, 1, 1)
	var failed *netsim.NetworkConnectFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected NetworkConnectFailedError, got %v", err)
	}
}

func TestConnectRejectsDuplicateOrigin(t *testing.T) {
	n := NewNetwork(nil)
	n.Register(device.NewRepeater("r1", 1))
	n.Register(device.NewRepeater("r2", 2))
	n.Register(device.NewRepeater("r3", 3))
	if err := n.Connect(1, 0, 2, 0); err != nil {
		t.Fatal(err)
	}
	if err := n.Connect(1, 0, 3, 0); err == nil {
		t.Fatal("expected second link from the same origin port to fail")
	}
}

func TestConnectBothInstallsBothDirections(t *testing.T) {
	n := NewNetwork(nil)
	n.Register(device.NewRepeater("r1", 1))
	n.Register(device.NewRepeater("r2", 2))
	if err := n.ConnectBoth(1, 0, 2, 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := n.links[linkKey{1, 0}]; !ok {
		t.Fatal("missing forward link")
	}
	if _, ok := n.links[linkKey{2, 0}]; !ok {
		t.Fatal("missing reverse link")
	}
}

func TestConnectBothAtomicOnFailure(t *testing.T) {
	n := NewNetwork(nil)
	n.Register(device.NewRepeater("r1", 1))
	n.Register(device.NewRepeater("r2", 2))
	n.Register(device.NewRepeater("r3", 3))
	// Pre-occupy (2,0) so the reverse half of ConnectBoth(1,0,2,0) fails.
	if err := n.Connect(2, 0, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := n.ConnectBoth(1, 0, 2, 0); err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := n.links[linkKey{1, 0}]; ok {
		t.Fatal("forward half must not survive a failed ConnectBoth")
	}
}

func TestRunMissingLinkIsHardError(t *testing.T) {
	n := NewNetwork(nil)
	h := device.NewByteHost("h", 1)
	h.Schedule(0, 0, 0xAA)
	n.Register(h)
	err := n.Run(5)
	var notFound *netsim.ConnectionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ConnectionNotFoundError, got %v", err)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	n := NewNetwork(nil)
	_, err := n.GetDevice(99)
	var notFound *netsim.DeviceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DeviceNotFoundError, got %v", err)
	}
}
