package tele

import (
	"context"

	tele_config "github.com/temoto/coinvend/internal/tele/config"
	"github.com/temoto/coinvend/log2"
)

// Teler interface Telemetry client, vending machine side.
// Calls never fail or block the caller for network, delivery is best effort.
type Teler interface {
	Init(context.Context, *log2.Log, tele_config.Config) error
	Close()
	Error(error)
	Transaction(*Telemetry_Transaction)
}

type stub struct{}

func (stub) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }
func (stub) Close()                                                    {}
func (stub) Error(error)                                               {}
func (stub) Transaction(*Telemetry_Transaction)                        {}

func NewStub() Teler { return stub{} }
