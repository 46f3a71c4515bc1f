package interp

// Eval is the evaluator described in spec.md §4.3: a recursive dispatch on
// expression shape, with an explicit re-entry loop replacing recursive
// self-calls in tail position (if's chosen branch, begin's last
// expression, cond/let's desugared body, and/or's last test, a compound
// call's body) — the same shape as the teacher's runCfg loop, which rebinds
// (n = n.tnext/n.fnext) instead of recursing; here the loop rebinds
// (expr, env) instead of CFG-node successors.
func (interp *Interpreter) Eval(expr *Value, env *Value) (*Value, *SchemeError) {
	for {
		switch {
		case isSelfEvaluating(expr):
			return expr, nil

		case expr.IsSymbol():
			return Lookup(expr.sym, env)

		case expr.IsPair():
			op := expr.car
			if op.IsSymbol() {
				switch op.sym {
				case interp.wk.quote:
					return expr.cdr.car, nil

				case interp.wk.setBang:
					val, err := interp.Eval(expr.cdr.cdr.car, env)
					if err != nil {
						return nil, err
					}
					if err := Set(expr.cdr.car.sym, val, env); err != nil {
						return nil, err
					}
					return NewSymbolValue(interp.wk.ok), nil

				case interp.wk.define:
					sym, valExpr, err := parseDefine(expr, interp.wk)
					if err != nil {
						return nil, err
					}
					val, eerr := interp.Eval(valExpr, env)
					if eerr != nil {
						return nil, eerr
					}
					if err := Define(sym, val, env); err != nil {
						return nil, err
					}
					return NewSymbolValue(interp.wk.ok), nil

				case interp.wk.ifSym:
					test, err := interp.Eval(expr.cdr.car, env)
					if err != nil {
						return nil, err
					}
					rest := expr.cdr.cdr
					if test.IsTrue() {
						expr = rest.car
					} else if rest.cdr.IsPair() {
						expr = rest.cdr.car
					} else {
						return False, nil
					}
					continue

				case interp.wk.lambda:
					return NewCompound(expr.cdr.car, expr.cdr.cdr, env), nil

				case interp.wk.begin:
					next, benv, done, val, err := interp.evalBodyTail(expr.cdr, env)
					if err != nil || done {
						return val, err
					}
					expr, env = next, benv
					continue

				case interp.wk.cond:
					desugared, err := desugarCond(expr.cdr, interp.wk)
					if err != nil {
						return nil, err
					}
					expr = desugared
					continue

				case interp.wk.let:
					desugared, err := desugarLet(expr.cdr, interp.wk)
					if err != nil {
						return nil, err
					}
					expr = desugared
					continue

				case interp.wk.and:
					tests, _ := ListToSlice(expr.cdr)
					if len(tests) == 0 {
						return True, nil
					}
					for _, t := range tests[:len(tests)-1] {
						v, err := interp.Eval(t, env)
						if err != nil {
							return nil, err
						}
						if !v.IsTrue() {
							return False, nil
						}
					}
					expr = tests[len(tests)-1]
					continue

				case interp.wk.or:
					tests, _ := ListToSlice(expr.cdr)
					if len(tests) == 0 {
						return False, nil
					}
					for _, t := range tests[:len(tests)-1] {
						v, err := interp.Eval(t, env)
						if err != nil {
							return nil, err
						}
						if v.IsTrue() {
							return v, nil
						}
					}
					expr = tests[len(tests)-1]
					continue
				}
			}

			// Application (spec.md §4.3 case 13).
			operator, err := interp.Eval(op, env)
			if err != nil {
				return nil, err
			}
			argExprs, properArgs := ListToSlice(expr.cdr)
			if !properArgs {
				return nil, evalError("application: improper argument list")
			}
			args := make([]*Value, len(argExprs))
			for i, ae := range argExprs {
				v, err := interp.Eval(ae, env)
				if err != nil {
					return nil, err
				}
				args[i] = v
			}

			for {
				switch {
				case operator == interp.evalProc:
					if len(args) != 2 {
						return nil, evalError("eval: expected 2 arguments, got %d", len(args))
					}
					expr, env = args[0], args[1]
					goto tailContinue

				case operator == interp.applyProc:
					if len(args) < 2 {
						return nil, evalError("apply: expected at least 2 arguments, got %d", len(args))
					}
					newOperator := args[0]
					front := args[1 : len(args)-1]
					last := args[len(args)-1]
					tail, proper := ListToSlice(last)
					if !proper {
						return nil, evalError("apply: last argument is not a proper list")
					}
					newArgs := append(append([]*Value{}, front...), tail...)
					operator, args = newOperator, newArgs
					continue

				case operator.IsPrimitiveProc():
					return operator.prim(interp, SliceToList(args))

				case operator.IsCompoundProc():
					vars, vals, berr := bindArguments(operator.params, args)
					if berr != nil {
						return nil, berr
					}
					env = Extend(vars, vals, operator.env)
					next, benv, done, val, verr := interp.evalBodyTail(operator.body, env)
					if verr != nil || done {
						return val, verr
					}
					expr, env = next, benv
					goto tailContinue

				default:
					return nil, evalError("unknown procedure type: %s", writeToString(operator))
				}
			}
		tailContinue:
			continue

		default:
			return nil, evalError("unknown expression type: %s", writeToString(expr))
		}
	}
}

// isSelfEvaluating covers spec.md §4.3 case 1, matching
// original_source/scheme.c's is_self_evaluating exactly: booleans, fixnums,
// characters, and strings evaluate to themselves. Every other non-pair,
// non-symbol value (the empty list, ports, procedures) is not a legal
// expression and falls through to the "unknown expression type" error,
// exactly as in the reference.
func isSelfEvaluating(v *Value) bool {
	return v.IsBoolean() || v.IsFixnum() || v.IsCharacter() || v.IsString()
}

// evalBodyTail evaluates all but the last expression in body for effect and
// returns the last expression plus env for the caller to tail-dispatch. If
// body is empty, done is true and val is the ok symbol (an empty body has
// no meaningful value; this matches spec.md's guidance for an empty load).
func (interp *Interpreter) evalBodyTail(body, env *Value) (next, nenv *Value, done bool, val *Value, err *SchemeError) {
	if body.IsEmptyList() {
		return nil, nil, true, NewSymbolValue(interp.wk.ok), nil
	}
	for body.cdr.IsPair() {
		if _, err := interp.Eval(body.car, env); err != nil {
			return nil, nil, true, nil, err
		}
		body = body.cdr
	}
	return body.car, env, false, nil, nil
}

// parseDefine recognizes both definition shapes from spec.md §4.3 case 5:
// (define name valexpr) and (define (name param…) body…).
func parseDefine(expr *Value, wk wellKnown) (*Symbol, *Value, *SchemeError) {
	target := expr.cdr.car
	if target.IsSymbol() {
		return target.sym, expr.cdr.cdr.car, nil
	}
	if target.IsPair() {
		name := target.car
		if !name.IsSymbol() {
			return nil, nil, evalError("define: malformed procedure name")
		}
		params := target.cdr
		body := expr.cdr.cdr
		lambdaExpr := Cons(NewSymbolValue(wk.lambda), Cons(params, body))
		return name.sym, lambdaExpr, nil
	}
	return nil, nil, evalError("define: malformed definition")
}

// desugarCond rewrites (cond clause…) into nested ifs, per spec.md §4.3
// case 9. An else clause must be last.
func desugarCond(clauses *Value, wk wellKnown) (*Value, *SchemeError) {
	if clauses.IsEmptyList() {
		// No clause matched and there is no else: original_source/scheme.c's
		// expand_clauses returns the literal false object here, which is
		// self-evaluating when spliced back into the tail-dispatch loop. A
		// bare 'ok symbol would instead send the loop through Lookup and
		// throw "unbound variable: ok".
		return False, nil
	}
	clause := clauses.car
	test := clause.car
	body := clause.cdr
	if test.IsSymbol() && test.sym == wk.elseSym {
		if !clauses.cdr.IsEmptyList() {
			return nil, evalError("cond: else clause must be last")
		}
		return Cons(NewSymbolValue(wk.begin), body), nil
	}
	rest, err := desugarCond(clauses.cdr, wk)
	if err != nil {
		return nil, err
	}
	consequent := Cons(NewSymbolValue(wk.begin), body)
	return Cons(NewSymbolValue(wk.ifSym), Cons(test, Cons(consequent, Cons(rest, EmptyList)))), nil
}

// desugarLet rewrites (let ((p1 a1) …) body…) into
// ((lambda (p1 …) body…) a1 …), per spec.md §4.3 case 10.
func desugarLet(rest *Value, wk wellKnown) (*Value, *SchemeError) {
	bindings, body := rest.car, rest.cdr
	bindingList, proper := ListToSlice(bindings)
	if !proper {
		return nil, evalError("let: malformed bindings")
	}
	var params, args []*Value
	for _, b := range bindingList {
		pair, propb := ListToSlice(b)
		if !propb || len(pair) != 2 {
			return nil, evalError("let: malformed binding")
		}
		params = append(params, pair[0])
		args = append(args, pair[1])
	}
	lambdaExpr := Cons(NewSymbolValue(wk.lambda), Cons(SliceToList(params), body))
	return Cons(lambdaExpr, SliceToList(args)), nil
}
