// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Code checked in from `go generate` output (see generate.go); edit the
// .proto files and regenerate rather than hand-editing message shapes.

package walletrpc

// ChainMetadata carries the two pools' note-commitment tree sizes as of
// the block it is attached to.
type ChainMetadata struct {
	SaplingCommitmentTreeSize uint32 `protobuf:"varint,1,opt,name=sapling_commitment_tree_size,json=saplingCommitmentTreeSize,proto3" json:"sapling_commitment_tree_size,omitempty"`
	OrchardCommitmentTreeSize uint32 `protobuf:"varint,2,opt,name=orchard_commitment_tree_size,json=orchardCommitmentTreeSize,proto3" json:"orchard_commitment_tree_size,omitempty"`
}

func (x *ChainMetadata) Reset()         { *x = ChainMetadata{} }
func (x *ChainMetadata) String() string { return "ChainMetadata" }
func (*ChainMetadata) ProtoMessage()    {}

// CompactBlock is the reduced block form a light-wallet client consumes:
// enough to find and follow the chain tip and trial-decrypt every
// shielded output/action, nothing more.
type CompactBlock struct {
	ProtoVersion  uint32         `protobuf:"varint,1,opt,name=proto_version,json=protoVersion,proto3" json:"proto_version,omitempty"`
	Height        uint64         `protobuf:"varint,2,opt,name=height,proto3" json:"height,omitempty"`
	Hash          []byte         `protobuf:"bytes,3,opt,name=hash,proto3" json:"hash,omitempty"`
	PrevHash      []byte         `protobuf:"bytes,4,opt,name=prev_hash,json=prevHash,proto3" json:"prev_hash,omitempty"`
	Time          uint32         `protobuf:"varint,5,opt,name=time,proto3" json:"time,omitempty"`
	Header        []byte         `protobuf:"bytes,6,opt,name=header,proto3" json:"header,omitempty"`
	Vtx           []*CompactTx   `protobuf:"bytes,7,rep,name=vtx,proto3" json:"vtx,omitempty"`
	ChainMetadata *ChainMetadata `protobuf:"bytes,8,opt,name=chain_metadata,json=chainMetadata,proto3" json:"chain_metadata,omitempty"`
}

func (x *CompactBlock) Reset()         { *x = CompactBlock{} }
func (x *CompactBlock) String() string { return "CompactBlock" }
func (*CompactBlock) ProtoMessage()    {}

// CompactTx is one transaction's worth of compact spend/output/action
// descriptors, in the same order they appear in the full transaction.
type CompactTx struct {
	Index   uint64                  `protobuf:"varint,1,opt,name=index,proto3" json:"index,omitempty"`
	Hash    []byte                  `protobuf:"bytes,2,opt,name=hash,proto3" json:"hash,omitempty"`
	Fee     uint32                  `protobuf:"varint,3,opt,name=fee,proto3" json:"fee,omitempty"`
	Spends  []*CompactSaplingSpend  `protobuf:"bytes,4,rep,name=spends,proto3" json:"spends,omitempty"`
	Outputs []*CompactSaplingOutput `protobuf:"bytes,5,rep,name=outputs,proto3" json:"outputs,omitempty"`
	Actions []*CompactOrchardAction `protobuf:"bytes,6,rep,name=actions,proto3" json:"actions,omitempty"`
}

func (x *CompactTx) Reset()         { *x = CompactTx{} }
func (x *CompactTx) String() string { return "CompactTx" }
func (*CompactTx) ProtoMessage()    {}

type CompactSaplingSpend struct {
	Nf []byte `protobuf:"bytes,1,opt,name=nf,proto3" json:"nf,omitempty"`
}

func (x *CompactSaplingSpend) Reset()         { *x = CompactSaplingSpend{} }
func (x *CompactSaplingSpend) String() string { return "CompactSaplingSpend" }
func (*CompactSaplingSpend) ProtoMessage()    {}

type CompactSaplingOutput struct {
	Cmu        []byte `protobuf:"bytes,1,opt,name=cmu,proto3" json:"cmu,omitempty"`
	Epk        []byte `protobuf:"bytes,2,opt,name=epk,proto3" json:"epk,omitempty"`
	Ciphertext []byte `protobuf:"bytes,3,opt,name=ciphertext,proto3" json:"ciphertext,omitempty"`
}

func (x *CompactSaplingOutput) Reset()         { *x = CompactSaplingOutput{} }
func (x *CompactSaplingOutput) String() string { return "CompactSaplingOutput" }
func (*CompactSaplingOutput) ProtoMessage()    {}

type CompactOrchardAction struct {
	Nullifier    []byte `protobuf:"bytes,1,opt,name=nullifier,proto3" json:"nullifier,omitempty"`
	Cmx          []byte `protobuf:"bytes,2,opt,name=cmx,proto3" json:"cmx,omitempty"`
	EphemeralKey []byte `protobuf:"bytes,3,opt,name=ephemeral_key,json=ephemeralKey,proto3" json:"ephemeral_key,omitempty"`
	Ciphertext   []byte `protobuf:"bytes,4,opt,name=ciphertext,proto3" json:"ciphertext,omitempty"`
}

func (x *CompactOrchardAction) Reset()         { *x = CompactOrchardAction{} }
func (x *CompactOrchardAction) String() string { return "CompactOrchardAction" }
func (*CompactOrchardAction) ProtoMessage()    {}
