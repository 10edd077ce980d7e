package tele

import (
	"context"
	"time"

	proto "github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	tele_config "github.com/temoto/coinvend/internal/tele/config"
	"github.com/temoto/coinvend/log2"
)

const DefaultNetworkTimeout = 30 * time.Second

// Tele contract:
// - Init() fails only with invalid config, network issues ignored
// - Transaction/Error never block on network
// - disabled tele accepts all calls and does nothing
type tele struct {
	config    tele_config.Config
	log       *log2.Log
	transport Transporter
	vmId      int32
}

func New() Teler {
	return &tele{}
}
func NewWithTransporter(trans Transporter) Teler {
	return &tele{transport: trans}
}

func (self *tele) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	self.config = teleConfig
	self.log = log
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	if !self.config.Enabled {
		self.log.Debugf("tele disabled")
		return nil
	}
	if self.config.VmId <= 0 {
		return errors.NotValidf("tele vm_id=%d", self.config.VmId)
	}
	self.vmId = int32(self.config.VmId)

	// test code sets .transport
	if self.transport == nil { // production path
		self.transport = &transportMqtt{}
	}
	if err := self.transport.Init(ctx, log, teleConfig); err != nil {
		return errors.Annotate(err, "tele transport")
	}
	return nil
}

func (self *tele) Close() {
	if self.config.Enabled && self.transport != nil {
		self.transport.Close()
	}
}

func (self *tele) Error(e error) {
	if !self.config.Enabled || e == nil {
		return
	}
	tm := &Telemetry_Error{
		VmId:    self.vmId,
		Message: e.Error(),
		Time:    time.Now().UnixNano(),
	}
	b, err := proto.Marshal(tm)
	if err != nil {
		self.log.Infof("tele error marshal err=%v", err)
		return
	}
	if !self.transport.SendError(b) {
		self.log.Infof("tele error lost message=%s", tm.Message)
	}
}

func (self *tele) Transaction(tx *Telemetry_Transaction) {
	if !self.config.Enabled {
		return
	}
	if tx.VmId == 0 {
		tx.VmId = self.vmId
	}
	if tx.Time == 0 {
		tx.Time = time.Now().UnixNano()
	}
	b, err := proto.Marshal(tx)
	if err != nil {
		self.log.Infof("tele transaction marshal tx=%s err=%v", tx.String(), err)
		return
	}
	if !self.transport.SendTelemetry(b) {
		self.log.Infof("tele transaction lost tx=%s", tx.String())
	}
}
