package script

import "github.com/inference-sim/landlord-sim/sim"

func init() {
	sim.NewScriptRankerFunc = func(source string) (sim.ScriptRanker, error) {
		return Compile(source)
	}
}
