// Package script evaluates user-supplied Lua tie-break functions.
//
// A tie-break script defines a global function rank(entry) that returns a number.
// Among entries whose credit reached zero in the same round, lower ranks are
// evicted first and equal ranks fall back to object ID order. The entry table
// carries id, credit, cost, size, inserted and last_access.
//
//	function rank(e)
//	  return e.cost / e.size   -- evict cheapest per unit of capacity first
//	end
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/inference-sim/landlord-sim/sim"
)

// RankFunction is the global the script must define.
const RankFunction = "rank"

// Ranker holds a compiled script in its own Lua state.
// It is not safe for concurrent use; every replay compiles its own.
type Ranker struct {
	state *lua.LState
	rank  *lua.LFunction
}

// Compile loads source into a fresh Lua state with only the base, table, string
// and math libraries available, and resolves the rank function.
func Compile(source string) (*Ranker, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("opening lua library %q: %w", lib.name, err)
		}
	}
	// No file access from tie-break scripts.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading tie-break script: %w", err)
	}
	fn, ok := L.GetGlobal(RankFunction).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("tie-break script must define a global function %q", RankFunction)
	}
	return &Ranker{state: L, rank: fn}, nil
}

// Rank calls rank(entry) and returns its numeric result.
func (r *Ranker) Rank(e sim.EntryState) (float64, error) {
	if r.state == nil {
		return 0, fmt.Errorf("tie-break script is closed")
	}
	entry := r.state.NewTable()
	entry.RawSetString("id", lua.LString(e.ID))
	entry.RawSetString("credit", lua.LNumber(e.Credit))
	entry.RawSetString("cost", lua.LNumber(e.Cost))
	entry.RawSetString("size", lua.LNumber(e.Size))
	entry.RawSetString("inserted", lua.LNumber(e.Inserted))
	entry.RawSetString("last_access", lua.LNumber(e.LastAccess))

	if err := r.state.CallByParam(lua.P{Fn: r.rank, NRet: 1, Protect: true}, entry); err != nil {
		return 0, err
	}
	ret := r.state.Get(-1)
	r.state.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s must return a number, got %s", RankFunction, ret.Type())
	}
	return float64(n), nil
}

// Close releases the Lua state.
func (r *Ranker) Close() {
	if r.state != nil {
		r.state.Close()
		r.state = nil
	}
}
