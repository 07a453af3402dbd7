package pdb

var OldOrMmcif = oldOrMmcif
var ReadStructureFrom = readStructure

const (
	Old_fmt   = old_fmt
	Mmcif_fmt = mmcif_fmt
)
