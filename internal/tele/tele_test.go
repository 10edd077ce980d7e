package tele

import (
	"context"
	"fmt"
	"testing"

	proto "github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele_config "github.com/temoto/coinvend/internal/tele/config"
	"github.com/temoto/coinvend/log2"
)

type transportMock struct {
	t            testing.TB
	lost         bool
	closed       bool
	outTelemetry [][]byte
	outError     [][]byte
}

func (self *transportMock) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	return nil
}

func (self *transportMock) Close() { self.closed = true }

func (self *transportMock) SendTelemetry(payload []byte) bool {
	if self.lost {
		return false
	}
	self.t.Logf("mock delivered telemetry=%x", payload)
	self.outTelemetry = append(self.outTelemetry, payload)
	return true
}

func (self *transportMock) SendError(payload []byte) bool {
	if self.lost {
		return false
	}
	self.t.Logf("mock delivered error=%x", payload)
	self.outError = append(self.outError, payload)
	return true
}

func newTestTele(t testing.TB, c tele_config.Config) (Teler, *transportMock) {
	mock := &transportMock{t: t}
	tele := NewWithTransporter(mock)
	err := tele.Init(context.Background(), log2.NewTest(t, log2.LDebug), c)
	require.NoError(t, err)
	return tele, mock
}

func TestTransaction(t *testing.T) {
	t.Parallel()

	tele, mock := newTestTele(t, tele_config.Config{Enabled: true, VmId: 7})
	tele.Transaction(&Telemetry_Transaction{
		TxId:    "tx1",
		Kind:    Telemetry_Transaction_Purchase,
		Product: "Candy",
		Price:   10,
		Credit:  90,
	})
	tele.Transaction(&Telemetry_Transaction{
		TxId:   "tx1",
		Kind:   Telemetry_Transaction_End,
		Change: []*Telemetry_Coin{{Nominal: 50, Count: 1}, {Nominal: 20, Count: 2}},
	})
	require.Len(t, mock.outTelemetry, 2)

	var tx Telemetry_Transaction
	require.NoError(t, proto.Unmarshal(mock.outTelemetry[0], &tx))
	assert.Equal(t, int32(7), tx.VmId)
	assert.Equal(t, "tx1", tx.TxId)
	assert.Equal(t, Telemetry_Transaction_Purchase, tx.Kind)
	assert.Equal(t, "Candy", tx.Product)
	assert.Equal(t, uint32(10), tx.Price)
	assert.Equal(t, uint32(90), tx.Credit)
	assert.NotZero(t, tx.Time)

	require.NoError(t, proto.Unmarshal(mock.outTelemetry[1], &tx))
	assert.Equal(t, Telemetry_Transaction_End, tx.Kind)
	require.Len(t, tx.Change, 2)
	assert.Equal(t, uint32(20), tx.Change[1].Nominal)
	assert.Equal(t, uint32(2), tx.Change[1].Count)

	tele.Close()
	assert.True(t, mock.closed)
}

func TestError(t *testing.T) {
	t.Parallel()

	tele, mock := newTestTele(t, tele_config.Config{Enabled: true, VmId: 3})
	tele.Error(nil)
	tele.Error(fmt.Errorf("coin jam"))
	require.Len(t, mock.outError, 1)
	var te Telemetry_Error
	require.NoError(t, proto.Unmarshal(mock.outError[0], &te))
	assert.Equal(t, int32(3), te.VmId)
	assert.Equal(t, "coin jam", te.Message)

	mock.lost = true
	tele.Error(fmt.Errorf("lost"))
	tele.Transaction(&Telemetry_Transaction{Kind: Telemetry_Transaction_End})
	assert.Len(t, mock.outError, 1)
	assert.Len(t, mock.outTelemetry, 0)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	tele, mock := newTestTele(t, tele_config.Config{Enabled: false})
	tele.Transaction(&Telemetry_Transaction{Kind: Telemetry_Transaction_Purchase})
	tele.Error(fmt.Errorf("ignored"))
	tele.Close()
	assert.Len(t, mock.outTelemetry, 0)
	assert.Len(t, mock.outError, 0)
	assert.False(t, mock.closed)
}

func TestInitInvalid(t *testing.T) {
	t.Parallel()

	tele := NewWithTransporter(&transportMock{t: t})
	err := tele.Init(context.Background(), log2.NewTest(t, log2.LDebug), tele_config.Config{Enabled: true})
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))

	err = New().Init(context.Background(), log2.NewTest(t, log2.LDebug), tele_config.Config{Enabled: true, VmId: 1, MqttBroker: "::bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mqtt_broker")
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Purchase", Telemetry_Transaction_Purchase.String())
	assert.Equal(t, "End", Telemetry_Transaction_End.String())
}
