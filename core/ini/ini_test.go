package ini_test

import (
	"os"
	"path/filepath"
	"testing"

	"kf2-manager/core/ini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[Engine.GameInfo]
DefaultGame=KFGameContent.KFGameInfo_Survival
bAdminCanPause=false

[KFGame.KFGameInfo]
GameMapCycles=(Maps=("KF-BurningParis"))
ActiveMapCycle=0

[KF-Outpost KFMapSummary]
MapName=KF-Outpost
`

func TestParse(t *testing.T) {
	table := ini.Parse([]byte(sample))

	assert.Equal(t, []string{
		"[Engine.GameInfo]",
		"[KFGame.KFGameInfo]",
		"[KF-Outpost KFMapSummary]",
	}, table.Headers())

	lines, ok := table.Get("[KFGame.KFGameInfo]")
	require.True(t, ok)
	assert.Equal(t, []string{`GameMapCycles=(Maps=("KF-BurningParis"))`, "ActiveMapCycle=0"}, lines)

	t.Run("MultipleBlankLines", func(t *testing.T) {
		table := ini.Parse([]byte("[A]\na=1\n\n\n\n[B]\nb=2\n"))
		assert.Equal(t, []string{"[A]", "[B]"}, table.Headers())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0, ini.Parse(nil).Len())
		assert.Equal(t, 0, ini.Parse([]byte("\n\n")).Len())
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		table := ini.Parse([]byte("[A]\n\n[B]\nb=1\n"))
		lines, ok := table.Get("[A]")
		assert.True(t, ok)
		assert.Empty(t, lines)
	})

	t.Run("DuplicateHeaderKeepsFirstPosition", func(t *testing.T) {
		table := ini.Parse([]byte("[A]\na=1\n\n[B]\nb=1\n\n[A]\na=2\n"))
		assert.Equal(t, []string{"[A]", "[B]"}, table.Headers())
		lines, _ := table.Get("[A]")
		assert.Equal(t, []string{"a=2"}, lines)
	})
}

func TestFormatRoundTrip(t *testing.T) {
	t.Run("BytesStable", func(t *testing.T) {
		assert.Equal(t, sample, string(ini.Format(ini.Parse([]byte(sample)))))
	})

	t.Run("TrailingBlankLinesNormalized", func(t *testing.T) {
		out := ini.Format(ini.Parse([]byte(sample + "\n\n\n")))
		assert.Equal(t, sample, string(out))
	})

	t.Run("StructurePreserved", func(t *testing.T) {
		table := ini.NewTable()
		table.Set("[Z]", []string{"z=1", "z=2"})
		table.Set("[A]", nil)
		table.Set("[M KFMapSummary]", []string{"MapName=M"})

		again := ini.Parse(ini.Format(table))
		assert.True(t, table.Equal(again))
	})

	t.Run("CRLFPreserved", func(t *testing.T) {
		in := "[A]\r\na=1\r\n\r\n[B]\r\nb=2\r\n"
		table := ini.Parse([]byte(in))
		assert.Equal(t, []string{"[A]", "[B]"}, table.Headers())
		assert.Equal(t, in, string(ini.Format(table)))
	})
}

func TestTable(t *testing.T) {
	table := ini.NewTable()
	table.Set("[A]", []string{"a=1"})
	table.Set("[B]", []string{"b=1"})
	table.Set("[A]", []string{"a=2"})

	assert.Equal(t, []string{"[A]", "[B]"}, table.Headers())
	assert.True(t, table.Has("[B]"))

	t.Run("GetReturnsCopy", func(t *testing.T) {
		lines, _ := table.Get("[A]")
		lines[0] = "mutated"
		again, _ := table.Get("[A]")
		assert.Equal(t, []string{"a=2"}, again)
	})

	t.Run("Delete", func(t *testing.T) {
		c := table.Clone()
		assert.True(t, c.Delete("[A]"))
		assert.False(t, c.Delete("[A]"))
		assert.Equal(t, []string{"[B]"}, c.Headers())
		assert.Equal(t, 2, table.Len())
	})

	t.Run("Equal", func(t *testing.T) {
		other := ini.NewTable()
		other.Set("[B]", []string{"b=1"})
		other.Set("[A]", []string{"a=2"})
		assert.False(t, table.Equal(other))
		assert.True(t, table.Equal(table.Clone()))
	})
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PCServer-KFGame.ini")

	t.Run("NotFound", func(t *testing.T) {
		_, err := ini.Read(path)
		assert.ErrorIs(t, err, ini.ErrNotFound)
	})

	require.NoError(t, os.WriteFile(path, []byte(sample), 0o640))

	t.Run("RoundTrip", func(t *testing.T) {
		table, err := ini.Read(path)
		require.NoError(t, err)
		require.NoError(t, ini.Write(path, table))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, sample, string(data))
	})

	t.Run("Update", func(t *testing.T) {
		err := ini.Update(path, func(table *ini.Table) error {
			table.Set("[New]", []string{"x=1"})
			return nil
		})
		require.NoError(t, err)

		table, err := ini.Read(path)
		require.NoError(t, err)
		assert.Equal(t, "[New]", table.Headers()[table.Len()-1])
	})

	t.Run("UpdateErrorSkipsWrite", func(t *testing.T) {
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		err = ini.Update(path, func(table *ini.Table) error {
			table.Delete("[Engine.GameInfo]")
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}
