package vm

import "sort"

// OpMeta is the static metadata for one opcode, used for disassembly and
// for the init-time well-formedness check below.
type OpMeta struct {
	Code OpCode
	Name string
}

var opMeta = []OpMeta{
	{OpNOP, "NOP"},
	{OpHALT, "HALT"},
	{OpPUSH, "PUSH"},
	{OpPOP, "POP"},
	{OpCHAR, "CHAR"},
	{OpSTRING, "STRING"},
	{OpMATCHSET, "MATCHSET"},
	{OpEOF, "EOF"},
	{OpJUMPTABLE, "JUMPTABLE"},
	{OpCHOICE, "CHOICE"},
	{OpCOMMIT, "COMMIT"},
	{OpFAIL, "FAIL"},
	{OpFAILEMPTY, "FAILEMPTY"},
	{OpCALL, "CALL"},
	{OpGOSUB, "GOSUB"},
	{OpDYNCALL, "DYNCALL"},
	{OpRET, "RET"},
	{OpGET, "GET"},
	{OpPUT, "PUT"},
	{OpLOCAL, "LOCAL"},
	{OpLOCALEND, "LOCALEND"},
	{OpAPPLY, "APPLY"},
	{OpLINE, "LINE"},
	{OpCOLUMN, "COLUMN"},
	{OpCAP, "CAP"},
	{OpENDCAP, "ENDCAP"},
	{OpDEBUG, "DEBUG"},
	{OpDUP, "DUP"},
	{OpJMP, "JMP"},
	{OpBRANCH, "BRANCH"},
	{OpDROPHANDLER, "DROPHANDLER"},
	{OpRESETPOS, "RESETPOS"},
	{OpFAILMSG, "FAILMSG"},
	{OpFAILDYN, "FAILDYN"},
	{OpCOMBINE2, "COMBINE2"},
	{OpCOMBINE3, "COMBINE3"},
	{OpAPPLY2, "APPLY2"},
	{OpSCAN, "SCAN"},
	{OpPERFORM, "PERFORM"},
	{OpCHARPERFORM, "CHARPERFORM"},
	{OpSTRINGPERFORM, "STRINGPERFORM"},
	{OpCHAREXCHANGE, "CHAREXCHANGE"},
	{OpSTRINGEXCHANGE, "STRINGEXCHANGE"},
	{OpMATCHSETEXCHANGE, "MATCHSETEXCHANGE"},
}

type byCode []OpMeta

func (x byCode) Len() int           { return len(x) }
func (x byCode) Less(i, j int) bool { return x[i].Code < x[j].Code }
func (x byCode) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

func init() {
	assert(sort.IsSorted(byCode(opMeta)), "IsSorted(byCode(opMeta))")
	assert(len(opMeta) == int(opCodeCount), "opMeta covers every OpCode exactly once")
}
