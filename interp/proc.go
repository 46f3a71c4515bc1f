package interp

// bindArguments builds the frame for a compound procedure call: it matches
// params (a symbol, a proper list of symbols, or an improper list ending in
// a symbol) against the supplied argument values, per spec.md §4.4. Unlike
// the reference (which never checks arity — original_source/scheme.c's
// extend_environment silently zips whatever lengths it is given), this
// implementation enforces the REDESIGN FLAG in spec.md §9: a mismatch is an
// evaluation error.
func bindArguments(params *Value, args []*Value) ([]*Symbol, []*Value, *SchemeError) {
	// params is a single symbol: bind the whole argument list to it.
	if params.IsSymbol() {
		return []*Symbol{params.sym}, []*Value{SliceToList(args)}, nil
	}

	var vars []*Symbol
	var vals []*Value
	i := 0
	p := params
	for p.IsPair() {
		if !p.car.IsSymbol() {
			return nil, nil, evalError("lambda: parameter is not a symbol")
		}
		if i >= len(args) {
			return nil, nil, evalError("wrong number of arguments, too few for %s", writeToString(params))
		}
		vars = append(vars, p.car.sym)
		vals = append(vals, args[i])
		i++
		p = p.cdr
	}

	if p.IsEmptyList() {
		if i != len(args) {
			return nil, nil, evalError("wrong number of arguments, expected %d, got %d", i, len(args))
		}
		return vars, vals, nil
	}

	// Improper tail: a rest parameter that soaks up everything remaining.
	if !p.IsSymbol() {
		return nil, nil, evalError("lambda: malformed parameter list")
	}
	vars = append(vars, p.sym)
	vals = append(vals, SliceToList(args[i:]))
	return vars, vals, nil
}

// Apply invokes proc with the argument values in args; a primitive receives
// them as one list value (spec.md §4.5's primitive calling convention). The
// evaluator's tail-dispatch loop does not call Apply: it applies procedures
// inline (spec.md §4.3 case 13). Apply is the path used by the apply
// primitive in builtins.go.
func (interp *Interpreter) Apply(proc *Value, args []*Value) (*Value, *SchemeError) {
	switch {
	case proc.IsPrimitiveProc():
		return proc.prim(interp, SliceToList(args))
	case proc.IsCompoundProc():
		vars, vals, err := bindArguments(proc.params, args)
		if err != nil {
			return nil, err
		}
		env := Extend(vars, vals, proc.env)
		next, nenv, done, val, err2 := interp.evalBodyTail(proc.body, env)
		if err2 != nil || done {
			return val, err2
		}
		return interp.Eval(next, nenv)
	default:
		return nil, evalError("unknown procedure type: %s", writeToString(proc))
	}
}
