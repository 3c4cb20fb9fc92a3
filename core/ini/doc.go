// Package ini models the section-per-blank-line configuration files used by
// the Killing Floor 2 dedicated server (PCServer-KFGame.ini,
// PCServer-KFEngine.ini).
//
// The format is deliberately narrow: a file is a sequence of blocks separated
// by one or more blank lines. The first line of a block is its header (kept
// verbatim, usually "[Section.Name]") and every following line is body.
// There is no escaping, no comment handling and no value typing.
//
// # Table
//
// Table is the in-memory model: an ordered mapping from header to body lines.
// Headers are unique and the insertion order of sections that are not touched
// survives a read-modify-write cycle.
//
// # Store
//
// Read parses a file into a Table and Write serializes a Table back. Writes go
// through a temporary file and a rename, so a crash mid-write leaves either
// the old or the new content on disk.
//
// # Usage
//
//	table, err := ini.Read(path)
//	if err != nil {
//	    return err
//	}
//	table.Set("[KFGame.KFGameInfo]", lines)
//	err = ini.Write(path, table)
package ini
