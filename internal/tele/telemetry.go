package tele

import (
	proto "github.com/golang/protobuf/proto"
)

// Hand-written counterpart of tele.proto, keep field numbers in sync.
// Plain struct tags are enough for proto.Marshal/Unmarshal reflection path.

type Telemetry_Transaction_Kind int32

const (
	Telemetry_Transaction_Invalid  Telemetry_Transaction_Kind = 0
	Telemetry_Transaction_Purchase Telemetry_Transaction_Kind = 1
	Telemetry_Transaction_End      Telemetry_Transaction_Kind = 2
)

var Telemetry_Transaction_Kind_name = map[int32]string{
	0: "Invalid",
	1: "Purchase",
	2: "End",
}

func (x Telemetry_Transaction_Kind) String() string {
	return proto.EnumName(Telemetry_Transaction_Kind_name, int32(x))
}

type Telemetry_Coin struct {
	Nominal uint32 `protobuf:"varint,1,opt,name=nominal,proto3" json:"nominal,omitempty"`
	Count   uint32 `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *Telemetry_Coin) Reset()         { *m = Telemetry_Coin{} }
func (m *Telemetry_Coin) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Coin) ProtoMessage()    {}

type Telemetry_Transaction struct {
	VmId    int32                      `protobuf:"varint,1,opt,name=vm_id,json=vmId,proto3" json:"vm_id,omitempty"`
	TxId    string                     `protobuf:"bytes,2,opt,name=tx_id,json=txId,proto3" json:"tx_id,omitempty"`
	Kind    Telemetry_Transaction_Kind `protobuf:"varint,3,opt,name=kind,proto3" json:"kind,omitempty"`
	Product string                     `protobuf:"bytes,4,opt,name=product,proto3" json:"product,omitempty"`
	Price   uint32                     `protobuf:"varint,5,opt,name=price,proto3" json:"price,omitempty"`
	Credit  uint32                     `protobuf:"varint,6,opt,name=credit,proto3" json:"credit,omitempty"`
	Change  []*Telemetry_Coin          `protobuf:"bytes,7,rep,name=change,proto3" json:"change,omitempty"`
	Time    int64                      `protobuf:"varint,8,opt,name=time,proto3" json:"time,omitempty"`
}

func (m *Telemetry_Transaction) Reset()         { *m = Telemetry_Transaction{} }
func (m *Telemetry_Transaction) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Transaction) ProtoMessage()    {}

type Telemetry_Error struct {
	VmId    int32  `protobuf:"varint,1,opt,name=vm_id,json=vmId,proto3" json:"vm_id,omitempty"`
	Message string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	Time    int64  `protobuf:"varint,3,opt,name=time,proto3" json:"time,omitempty"`
}

func (m *Telemetry_Error) Reset()         { *m = Telemetry_Error{} }
func (m *Telemetry_Error) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Error) ProtoMessage()    {}
