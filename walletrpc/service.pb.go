// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package walletrpc

// ChainSpec is an intentionally empty request: "give me whatever you
// think is the current chain tip".
type ChainSpec struct{}

func (x *ChainSpec) Reset()         { *x = ChainSpec{} }
func (x *ChainSpec) String() string { return "ChainSpec" }
func (*ChainSpec) ProtoMessage()    {}

type BlockId struct {
	Height uint64 `protobuf:"varint,1,opt,name=height,proto3" json:"height,omitempty"`
	Hash   []byte `protobuf:"bytes,2,opt,name=hash,proto3" json:"hash,omitempty"`
}

func (x *BlockId) Reset()         { *x = BlockId{} }
func (x *BlockId) String() string { return "BlockId" }
func (*BlockId) ProtoMessage()    {}

// BlockRange is inclusive of both Start and End. SpamFilterThreshold is
// unused by this client; it exists only because the wire type carries it.
type BlockRange struct {
	Start               *BlockId `protobuf:"bytes,1,opt,name=start,proto3" json:"start,omitempty"`
	End                 *BlockId `protobuf:"bytes,2,opt,name=end,proto3" json:"end,omitempty"`
	SpamFilterThreshold uint32   `protobuf:"varint,3,opt,name=spam_filter_threshold,json=spamFilterThreshold,proto3" json:"spam_filter_threshold,omitempty"`
}

func (x *BlockRange) Reset()         { *x = BlockRange{} }
func (x *BlockRange) String() string { return "BlockRange" }
func (*BlockRange) ProtoMessage()    {}

// TreeState reports the serialized incremental-tree state as of Height,
// one hex string per shielded pool.
type TreeState struct {
	Network     string `protobuf:"bytes,1,opt,name=network,proto3" json:"network,omitempty"`
	Height      uint64 `protobuf:"varint,2,opt,name=height,proto3" json:"height,omitempty"`
	Hash        string `protobuf:"bytes,3,opt,name=hash,proto3" json:"hash,omitempty"`
	Time        uint32 `protobuf:"varint,4,opt,name=time,proto3" json:"time,omitempty"`
	SaplingTree string `protobuf:"bytes,5,opt,name=sapling_tree,json=saplingTree,proto3" json:"sapling_tree,omitempty"`
	OrchardTree string `protobuf:"bytes,6,opt,name=orchard_tree,json=orchardTree,proto3" json:"orchard_tree,omitempty"`
}

func (x *TreeState) Reset()         { *x = TreeState{} }
func (x *TreeState) String() string { return "TreeState" }
func (*TreeState) ProtoMessage()    {}

type TxFilter struct {
	Block *BlockId `protobuf:"bytes,1,opt,name=block,proto3" json:"block,omitempty"`
	Index uint64   `protobuf:"varint,2,opt,name=index,proto3" json:"index,omitempty"`
	Hash  []byte   `protobuf:"bytes,3,opt,name=hash,proto3" json:"hash,omitempty"`
}

func (x *TxFilter) Reset()         { *x = TxFilter{} }
func (x *TxFilter) String() string { return "TxFilter" }
func (*TxFilter) ProtoMessage()    {}

// RawTransaction carries the serialized transaction bytes exactly as
// they appear on the wire, alongside the height the server believes it
// was mined at (0 if only mempool-known).
type RawTransaction struct {
	Data   []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
	Height uint64 `protobuf:"varint,2,opt,name=height,proto3" json:"height,omitempty"`
}

func (x *RawTransaction) Reset()         { *x = RawTransaction{} }
func (x *RawTransaction) String() string { return "RawTransaction" }
func (*RawTransaction) ProtoMessage()    {}

type SendResponse struct {
	ErrorCode    int32  `protobuf:"varint,1,opt,name=error_code,json=errorCode,proto3" json:"error_code,omitempty"`
	ErrorMessage string `protobuf:"bytes,2,opt,name=error_message,json=errorMessage,proto3" json:"error_message,omitempty"`
}

func (x *SendResponse) Reset()         { *x = SendResponse{} }
func (x *SendResponse) String() string { return "SendResponse" }
func (*SendResponse) ProtoMessage()    {}

type Empty struct{}

func (x *Empty) Reset()         { *x = Empty{} }
func (x *Empty) String() string { return "Empty" }
func (*Empty) ProtoMessage()    {}

type LightdInfo struct {
	Version                 string `protobuf:"bytes,1,opt,name=version,proto3" json:"version,omitempty"`
	Vendor                  string `protobuf:"bytes,2,opt,name=vendor,proto3" json:"vendor,omitempty"`
	TaddrSupport            bool   `protobuf:"varint,3,opt,name=taddr_support,json=taddrSupport,proto3" json:"taddr_support,omitempty"`
	ChainName               string `protobuf:"bytes,4,opt,name=chain_name,json=chainName,proto3" json:"chain_name,omitempty"`
	SaplingActivationHeight uint64 `protobuf:"varint,5,opt,name=sapling_activation_height,json=saplingActivationHeight,proto3" json:"sapling_activation_height,omitempty"`
	ConsensusBranchId       string `protobuf:"bytes,6,opt,name=consensus_branch_id,json=consensusBranchId,proto3" json:"consensus_branch_id,omitempty"`
	BlockHeight             uint64 `protobuf:"varint,7,opt,name=block_height,json=blockHeight,proto3" json:"block_height,omitempty"`
	GitCommit               string `protobuf:"bytes,8,opt,name=git_commit,json=gitCommit,proto3" json:"git_commit,omitempty"`
	Branch                  string `protobuf:"bytes,9,opt,name=branch,proto3" json:"branch,omitempty"`
	BuildDate               string `protobuf:"bytes,10,opt,name=build_date,json=buildDate,proto3" json:"build_date,omitempty"`
	BuildUser               string `protobuf:"bytes,11,opt,name=build_user,json=buildUser,proto3" json:"build_user,omitempty"`
	EstimatedHeight         uint64 `protobuf:"varint,12,opt,name=estimated_height,json=estimatedHeight,proto3" json:"estimated_height,omitempty"`
	ZcashdBuild             string `protobuf:"bytes,13,opt,name=zcashd_build,json=zcashdBuild,proto3" json:"zcashd_build,omitempty"`
	ZcashdSubversion        string `protobuf:"bytes,14,opt,name=zcashd_subversion,json=zcashdSubversion,proto3" json:"zcashd_subversion,omitempty"`
}

func (x *LightdInfo) Reset()         { *x = LightdInfo{} }
func (x *LightdInfo) String() string { return "LightdInfo" }
func (*LightdInfo) ProtoMessage()    {}
