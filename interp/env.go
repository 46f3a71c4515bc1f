package interp

// An environment, per spec.md §3.3, is itself an ordinary Value: a list of
// frames, most-nested first, where each frame is a pair (vars . vals) of
// parallel lists. The empty environment is EmptyList. Representing
// environments this way — rather than inventing a bespoke Go struct — is
// what lets eval/apply/interaction-environment pass environments around as
// first-class Scheme values without adding a thirteenth Value case the
// data model in spec.md §3.1 never lists.

// Extend prepends a new frame binding vars to vals, per spec.md §3.3.
func Extend(vars []*Symbol, vals []*Value, base *Value) *Value {
	varVals := make([]*Value, len(vars))
	for i, s := range vars {
		varVals[i] = NewSymbolValue(s)
	}
	frame := Cons(SliceToList(varVals), SliceToList(vals))
	return Cons(frame, base)
}

// Lookup walks frames from inner to outer, scanning each frame's vars list
// by symbol identity, returning the aligned value (spec.md §3.3).
func Lookup(sym *Symbol, env *Value) (*Value, *SchemeError) {
	for e := env; e.IsPair(); e = e.cdr {
		frame := e.car
		vars, vals := frame.car, frame.cdr
		for vars.IsPair() {
			if vars.car.sym == sym {
				return vals.car, nil
			}
			vars, vals = vars.cdr, vals.cdr
		}
	}
	return nil, unboundVariable(sym.name)
}

// Set performs the same walk as Lookup but mutates the aligned value slot.
func Set(sym *Symbol, val *Value, env *Value) *SchemeError {
	for e := env; e.IsPair(); e = e.cdr {
		frame := e.car
		vars, vals := frame.car, frame.cdr
		for vars.IsPair() {
			if vars.car.sym == sym {
				vals.SetCar(val)
				return nil
			}
			vars, vals = vars.cdr, vals.cdr
		}
	}
	return unboundVariable(sym.name)
}

// Define scans only the innermost frame of env: if sym is already bound
// there its value is overwritten, else a new binding is prepended to that
// frame (spec.md §3.3). If env is the empty environment (as returned by
// null-environment), there is no frame to define into and an evaluation
// error is returned.
func Define(sym *Symbol, val *Value, env *Value) *SchemeError {
	if !env.IsPair() {
		return evalError("define: no environment frame to define into")
	}
	frame := env.car
	vars, vals := frame.car, frame.cdr
	for vars.IsPair() {
		if vars.car.sym == sym {
			vals.SetCar(val)
			return nil
		}
		vars, vals = vars.cdr, vals.cdr
	}
	newFrame := Cons(Cons(NewSymbolValue(sym), frame.car), Cons(val, frame.cdr))
	env.SetCar(newFrame)
	return nil
}
