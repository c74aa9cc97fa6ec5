package membership

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"gdaSwap/internal/model"
	"gdaSwap/internal/transport"
	"gdaSwap/internal/transport/transporttest"
)

var (
	forwarder = common.HexToAddress("0x6DA13Bde224A05a288748d857b9e7DDEffd1dE08")
	pool      = common.HexToAddress("0xAc89c2aEa192d404801a3334a071504a4Bc7AC63")
	account   = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func testConfig() Config {
	return Config{
		ChainID:       8453,
		Forwarder:     forwarder,
		Pool:          pool,
		Account:       account,
		Confirmations: 5,
		PollInterval:  5 * time.Millisecond,
	}
}

func connectedReader(connected *bool, mu *sync.Mutex) func(transport.CallRequest) ([]interface{}, error) {
	return func(req transport.CallRequest) ([]interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		return []interface{}{*connected}, nil
	}
}

func newTestController(t *testing.T, fake *transporttest.Fake) *Controller {
	t.Helper()
	c, err := NewController(testConfig(), fake, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	return c
}

func TestRefreshReadsMembership(t *testing.T) {
	var mu sync.Mutex
	connected := true
	var seen transport.CallRequest
	fake := &transporttest.Fake{ReadFunc: func(req transport.CallRequest) ([]interface{}, error) {
		seen = req
		return connectedReader(&connected, &mu)(req)
	}}
	c := newTestController(t, fake)

	state := c.Refresh(context.Background())
	if !state.Connected || !c.Latest().Connected {
		t.Fatalf("expected connected state: %+v", state)
	}
	if seen.Method != "isMemberConnected" || seen.Contract != forwarder {
		t.Fatalf("read mismatch: %s on %s", seen.Method, seen.Contract.Hex())
	}
	if seen.Args[0].(common.Address) != pool || seen.Args[1].(common.Address) != account {
		t.Fatalf("read args mismatch: %v", seen.Args)
	}
}

func TestRefreshAbsentReadsAsDisconnected(t *testing.T) {
	fake := &transporttest.Fake{}
	c := newTestController(t, fake)

	state := c.Refresh(context.Background())
	if state.Connected {
		t.Fatalf("empty read should be disconnected")
	}
	if state.ObservedAt.IsZero() {
		t.Fatalf("observation time should be set")
	}
}

func TestRefreshErrorKeepsSnapshot(t *testing.T) {
	fail := false
	fake := &transporttest.Fake{ReadFunc: func(transport.CallRequest) ([]interface{}, error) {
		if fail {
			return nil, errors.New("rpc down")
		}
		return []interface{}{true}, nil
	}}
	c := newTestController(t, fake)

	c.Refresh(context.Background())
	fail = true
	if state := c.Refresh(context.Background()); !state.Connected {
		t.Fatalf("failed read should keep previous snapshot")
	}
}

func TestPollEmitsUntilCancelled(t *testing.T) {
	var mu sync.Mutex
	connected := false
	fake := &transporttest.Fake{ReadFunc: connectedReader(&connected, &mu)}
	c := newTestController(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	updates := c.Poll(ctx)

	first := <-updates
	if first.Connected {
		t.Fatalf("first observation should be disconnected")
	}

	mu.Lock()
	connected = true
	mu.Unlock()

	deadline := time.After(time.Second)
	for {
		select {
		case state := <-updates:
			if !state.Connected {
				continue
			}
			cancel()
			for range updates {
			}
			reads := fake.ReadCount()
			time.Sleep(20 * time.Millisecond)
			if fake.ReadCount() != reads {
				t.Fatalf("reads continued after cancel")
			}
			return
		case <-deadline:
			t.Fatalf("poll never observed connected state")
		}
	}
}

func TestConnectNoopWhenConnected(t *testing.T) {
	fake := &transporttest.Fake{ReadFunc: func(transport.CallRequest) ([]interface{}, error) {
		return []interface{}{true}, nil
	}}
	c := newTestController(t, fake)
	c.Refresh(context.Background())

	outcome := c.Connect(context.Background())
	if !outcome.Succeeded() || !outcome.Noop {
		t.Fatalf("expected noop success, got %+v", outcome)
	}
	if fake.CallCount() != 0 {
		t.Fatalf("connect should not dispatch when connected")
	}
}

func TestConnectWaitsForConfirmations(t *testing.T) {
	reads := 0
	fake := &transporttest.Fake{ReadFunc: func(transport.CallRequest) ([]interface{}, error) {
		reads++
		return []interface{}{reads > 1}, nil
	}}
	c := newTestController(t, fake)
	c.Refresh(context.Background())

	outcome := c.Connect(context.Background())
	if outcome.Status != model.StatusConfirmed || outcome.Noop {
		t.Fatalf("expected confirmed, got %+v", outcome)
	}
	if len(fake.Calls) != 1 {
		t.Fatalf("expected one call, got %d", len(fake.Calls))
	}

	call := fake.Calls[0]
	if call.Method != "connectPool" || call.Contract != forwarder {
		t.Fatalf("call mismatch: %s on %s", call.Method, call.Contract.Hex())
	}
	if call.Args[0].(common.Address) != pool || len(call.Args[1].([]byte)) != 0 {
		t.Fatalf("connect args mismatch: %v", call.Args)
	}
	if len(fake.Waits) != 1 || fake.Waits[0].Threshold != 5 || fake.Waits[0].Hash != transporttest.HashFor(0) {
		t.Fatalf("wait mismatch: %+v", fake.Waits)
	}

	state := c.Latest()
	if !state.Connected || state.Connecting {
		t.Fatalf("state after connect mismatch: %+v", state)
	}
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []model.OutcomeRecord
}

func (m *memoryRecorder) PutOutcome(_ context.Context, record model.OutcomeRecord) error {
	m.mu.Lock()
	m.records = append(m.records, record)
	m.mu.Unlock()
	return nil
}

func (m *memoryRecorder) snapshot() []model.OutcomeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OutcomeRecord(nil), m.records...)
}

func TestConnectInFlightState(t *testing.T) {
	reads := 0
	fake := &transporttest.Fake{ReadFunc: func(transport.CallRequest) ([]interface{}, error) {
		reads++
		return []interface{}{reads > 1}, nil
	}}
	rec := &memoryRecorder{}
	c, err := NewController(testConfig(), fake, rec, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	c.Refresh(context.Background())

	var during model.MembershipState
	var recordedDuring []model.OutcomeRecord
	fake.OnWait = func(transporttest.Wait) {
		during = c.Latest()
		recordedDuring = rec.snapshot()
	}

	outcome := c.Connect(context.Background())
	if outcome.Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed, got %+v", outcome)
	}

	if !during.Connecting || during.Connected {
		t.Fatalf("state during wait mismatch: %+v", during)
	}
	hash := transporttest.HashFor(0).Hex()
	if len(recordedDuring) != 2 || recordedDuring[1].Status != "pending" || recordedDuring[1].TxHash != hash {
		t.Fatalf("records during wait mismatch: %+v", recordedDuring)
	}

	records := rec.snapshot()
	var statuses []string
	for _, r := range records {
		statuses = append(statuses, r.Status)
		if r.Account != account.Hex() || r.Operation != model.OperationConnect {
			t.Fatalf("record labels mismatch: %+v", r)
		}
	}
	if !reflect.DeepEqual(statuses, []string{"pending", "pending", "confirmed"}) {
		t.Fatalf("status sequence mismatch: %v", statuses)
	}
	if records[0].TxHash != "" || records[2].TxHash != hash {
		t.Fatalf("record hashes mismatch: %q %q", records[0].TxHash, records[2].TxHash)
	}

	after := c.Latest()
	if after.Connecting || !after.Connected {
		t.Fatalf("state after connect mismatch: %+v", after)
	}
}

func TestConnectFailures(t *testing.T) {
	tests := []struct {
		name string
		fake *transporttest.Fake
		want error
	}{
		{name: "rejected", fake: &transporttest.Fake{CallErrs: map[int]error{0: transport.ErrRejected}}, want: transport.ErrRejected},
		{name: "timed out", fake: &transporttest.Fake{WaitErr: transport.ErrTimedOut}, want: transport.ErrTimedOut},
		{name: "reverted", fake: &transporttest.Fake{WaitErr: transport.ErrReverted}, want: transport.ErrReverted},
	}

	for _, tt := range tests {
		c := newTestController(t, tt.fake)
		outcome := c.Connect(context.Background())
		if !outcome.Failed() || !errors.Is(outcome.Err, tt.want) {
			t.Fatalf("%s: expected failure wrapping %v, got %+v", tt.name, tt.want, outcome)
		}
		if c.Latest().Connecting {
			t.Fatalf("%s: connecting flag should be cleared", tt.name)
		}
		if len(tt.fake.Calls) > 1 {
			t.Fatalf("%s: connect must not retry", tt.name)
		}
	}
}
