package interp

import (
	"bufio"
	"os"
	"strconv"
)

// registerBuiltins builds the global environment frame, one binding per
// primitive, the way the teacher's initUniverse() builds its universe scope
// as one large literal table of name -> builtin. The exact name list and
// registration order follows original_source/scheme.c's add_procedure
// table (§834-890) so every primitive is spelled exactly as the reference
// spells it.
func (interp *Interpreter) registerBuiltins() {
	table := []struct {
		name string
		fn   PrimitiveFunc
	}{
		{"null?", primNullQ},
		{"boolean?", primBooleanQ},
		{"symbol?", primSymbolQ},
		{"integer?", primIntegerQ},
		{"char?", primCharQ},
		{"string?", primStringQ},
		{"pair?", primPairQ},
		{"procedure?", primProcedureQ},

		{"char->integer", primCharToInteger},
		{"integer->char", primIntegerToChar},
		{"number->string", primNumberToString},
		{"string->number", primStringToNumber},
		{"symbol->string", primSymbolToString},
		{"string->symbol", primStringToSymbol},

		{"+", primAdd},
		{"-", primSub},
		{"*", primMul},
		{"quotient", primQuotient},
		{"remainder", primRemainder},
		{"=", primNumEq},
		{"<", primLessThan},
		{">", primGreaterThan},

		{"cons", primCons},
		{"car", primCar},
		{"cdr", primCdr},
		{"set-car!", primSetCarBang},
		{"set-cdr!", primSetCdrBang},
		{"list", primList},

		{"eq?", primEqQ},

		{"apply", primApply},
		{"eval", primEval},
		{"interaction-environment", primInteractionEnvironment},
		{"null-environment", primNullEnvironment},
		{"environment", primEnvironment},

		{"load", primLoad},
		{"open-input-port", primOpenInputPort},
		{"close-input-port", primCloseInputPort},
		{"input-port?", primInputPortQ},
		{"read", primRead},
		{"read-char", primReadChar},
		{"peek-char", primPeekChar},
		{"eof-object?", primEofObjectQ},
		{"open-output-port", primOpenOutputPort},
		{"close-output-port", primCloseOutputPort},
		{"output-port?", primOutputPortQ},
		{"write-char", primWriteChar},
		{"write", primWrite},

		{"error", primError},
	}

	vars := make([]*Symbol, len(table))
	vals := make([]*Value, len(table))
	for i, e := range table {
		vars[i] = interp.syn.Intern(e.name)
		vals[i] = NewPrimitive(e.name, e.fn)
	}
	interp.global = Extend(vars, vals, EmptyList)

	evalV, _ := Lookup(interp.syn.Intern("eval"), interp.global)
	applyV, _ := Lookup(interp.syn.Intern("apply"), interp.global)
	interp.evalProc = evalV
	interp.applyProc = applyV
}

func argSlice(args *Value) []*Value {
	s, _ := ListToSlice(args)
	return s
}

func boolValue(b bool) *Value { return NewBoolean(b) }

// Predicates

func primNullQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsEmptyList()), nil
}

func primBooleanQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsBoolean()), nil
}

func primSymbolQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsSymbol()), nil
}

func primIntegerQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsFixnum()), nil
}

func primCharQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsCharacter()), nil
}

func primStringQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsString()), nil
}

func primPairQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsPair()), nil
}

func primProcedureQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsProcedure()), nil
}

func primInputPortQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsInputPort()), nil
}

func primOutputPortQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsOutputPort()), nil
}

func primEofObjectQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(args.car.IsEof()), nil
}

// Conversions

func primCharToInteger(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsCharacter() {
		return nil, typeMismatch("char->integer", v)
	}
	return NewFixnum(int64(v.char)), nil
}

func primIntegerToChar(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsFixnum() {
		return nil, typeMismatch("integer->char", v)
	}
	return NewCharacter(byte(v.fixnum)), nil
}

func primNumberToString(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsFixnum() {
		return nil, typeMismatch("number->string", v)
	}
	return NewString(strconv.FormatInt(v.fixnum, 10)), nil
}

func primStringToNumber(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsString() {
		return nil, typeMismatch("string->number", v)
	}
	n, err := strconv.ParseInt(v.str, 10, 64)
	if err != nil {
		return nil, evalError("string->number: %q is not a decimal integer", v.str)
	}
	return NewFixnum(n), nil
}

func primSymbolToString(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsSymbol() {
		return nil, typeMismatch("symbol->string", v)
	}
	return NewString(v.sym.name), nil
}

func primStringToSymbol(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsString() {
		return nil, typeMismatch("string->symbol", v)
	}
	return NewSymbolValue(interp.syn.Intern(v.str)), nil
}

// Arithmetic. Unlike original_source/scheme.c's is_less_than_proc and
// is_greater_than_proc, which compare each element against the
// previously-seen *maximum* (a bug — spec.md §9 treats this as divergent,
// not canonical), < and > here compare each element to its immediate
// predecessor, giving the intended strictly-monotone-chain semantics.

func fixnumsOf(proc string, args *Value) ([]int64, *SchemeError) {
	vs, proper := ListToSlice(args)
	if !proper {
		return nil, evalError("%s: improper argument list", proc)
	}
	out := make([]int64, len(vs))
	for i, v := range vs {
		if !v.IsFixnum() {
			return nil, typeMismatch(proc, v)
		}
		out[i] = v.fixnum
	}
	return out, nil
}

func primAdd(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("+", args)
	if err != nil {
		return nil, err
	}
	var sum int64
	for _, n := range ns {
		sum += n
	}
	return NewFixnum(sum), nil
}

func primMul(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("*", args)
	if err != nil {
		return nil, err
	}
	var product int64 = 1
	for _, n := range ns {
		product *= n
	}
	return NewFixnum(product), nil
}

func primSub(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("-", args)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, evalError("-: expected at least 1 argument")
	}
	if len(ns) == 1 {
		return NewFixnum(-ns[0]), nil
	}
	result := ns[0]
	for _, n := range ns[1:] {
		result -= n
	}
	return NewFixnum(result), nil
}

func primQuotient(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("quotient", args)
	if err != nil {
		return nil, err
	}
	if len(ns) != 2 {
		return nil, evalError("quotient: expected 2 arguments, got %d", len(ns))
	}
	if ns[1] == 0 {
		return nil, evalError("quotient: division by zero")
	}
	return NewFixnum(ns[0] / ns[1]), nil
}

func primRemainder(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("remainder", args)
	if err != nil {
		return nil, err
	}
	if len(ns) != 2 {
		return nil, evalError("remainder: expected 2 arguments, got %d", len(ns))
	}
	if ns[1] == 0 {
		return nil, evalError("remainder: division by zero")
	}
	return NewFixnum(ns[0] % ns[1]), nil
}

func primNumEq(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("=", args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(ns); i++ {
		if ns[i] != ns[0] {
			return False, nil
		}
	}
	return True, nil
}

func primLessThan(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf("<", args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(ns); i++ {
		if !(ns[i-1] < ns[i]) {
			return False, nil
		}
	}
	return True, nil
}

func primGreaterThan(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	ns, err := fixnumsOf(">", args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(ns); i++ {
		if !(ns[i-1] > ns[i]) {
			return False, nil
		}
	}
	return True, nil
}

// Pairs / lists

func primCons(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return Cons(args.car, args.cdr.car), nil
}

func primCar(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsPair() {
		return nil, typeMismatch("car", v)
	}
	return v.car, nil
}

func primCdr(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsPair() {
		return nil, typeMismatch("cdr", v)
	}
	return v.cdr, nil
}

func primSetCarBang(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsPair() {
		return nil, typeMismatch("set-car!", v)
	}
	v.SetCar(args.cdr.car)
	return NewSymbolValue(interp.wk.ok), nil
}

func primSetCdrBang(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsPair() {
		return nil, typeMismatch("set-cdr!", v)
	}
	v.SetCdr(args.cdr.car)
	return NewSymbolValue(interp.wk.ok), nil
}

func primList(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return args, nil
}

func primEqQ(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return boolValue(Eq(args.car, args.cdr.car)), nil
}

// Meta

func primApply(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	all := argSlice(args)
	if len(all) < 2 {
		return nil, evalError("apply: expected at least 2 arguments, got %d", len(all))
	}
	proc := all[0]
	front := all[1 : len(all)-1]
	last := all[len(all)-1]
	tail, proper := ListToSlice(last)
	if !proper {
		return nil, evalError("apply: last argument is not a proper list")
	}
	flat := append(append([]*Value{}, front...), tail...)
	return interp.Apply(proc, flat)
}

func primEval(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	exp := args.car
	env := args.cdr.car
	return interp.Eval(exp, env)
}

func primInteractionEnvironment(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return interp.global, nil
}

func primNullEnvironment(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return EmptyList, nil
}

func primEnvironment(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	return interp.global, nil
}

// I/O

func (interp *Interpreter) defaultInputPort() *Value {
	if interp.stdinPort == nil {
		interp.stdinPort = NewInputPort(bufio.NewReader(interp.stdin))
	}
	return interp.stdinPort
}

func (interp *Interpreter) defaultOutputPort() *Value {
	if interp.stdoutPort == nil {
		interp.stdoutPort = NewOutputPort(interp.stdout)
	}
	return interp.stdoutPort
}

func portOrDefault(args []*Value, idx int, fallback *Value) *Value {
	if idx < len(args) {
		return args[idx]
	}
	return fallback
}

func primLoad(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsString() {
		return nil, typeMismatch("load", v)
	}
	return interp.Load(v.str)
}

func primOpenInputPort(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsString() {
		return nil, typeMismatch("open-input-port", v)
	}
	f, err := os.Open(v.str)
	if err != nil {
		return nil, resourceError("open-input-port: %v", err)
	}
	return NewInputPort(bufio.NewReader(f)), nil
}

func primCloseInputPort(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsInputPort() {
		return nil, typeMismatch("close-input-port", v)
	}
	if *v.closed {
		return nil, evalError("close-input-port: already closed")
	}
	*v.closed = true
	return NewSymbolValue(interp.wk.ok), nil
}

func primOpenOutputPort(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsString() {
		return nil, typeMismatch("open-output-port", v)
	}
	f, err := os.Create(v.str)
	if err != nil {
		return nil, resourceError("open-output-port: %v", err)
	}
	return NewOutputPort(f), nil
}

func primCloseOutputPort(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	v := args.car
	if !v.IsOutputPort() {
		return nil, typeMismatch("close-output-port", v)
	}
	if *v.closed {
		return nil, evalError("close-output-port: already closed")
	}
	*v.closed = true
	return NewSymbolValue(interp.wk.ok), nil
}

func primRead(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	as := argSlice(args)
	port := portOrDefault(as, 0, interp.defaultInputPort())
	if !port.IsInputPort() {
		return nil, typeMismatch("read", port)
	}
	r := NewReaderFromPort(port, interp.syn)
	return r.Read()
}

func primReadChar(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	as := argSlice(args)
	port := portOrDefault(as, 0, interp.defaultInputPort())
	if !port.IsInputPort() {
		return nil, typeMismatch("read-char", port)
	}
	b, err := port.in.ReadByte()
	if err != nil {
		return Eof, nil
	}
	return NewCharacter(b), nil
}

func primPeekChar(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	as := argSlice(args)
	port := portOrDefault(as, 0, interp.defaultInputPort())
	if !port.IsInputPort() {
		return nil, typeMismatch("peek-char", port)
	}
	b, err := port.in.Peek(1)
	if err != nil {
		return Eof, nil
	}
	return NewCharacter(b[0]), nil
}

func primWriteChar(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	as := argSlice(args)
	if len(as) == 0 {
		return nil, evalError("write-char: expected at least 1 argument")
	}
	v := as[0]
	if !v.IsCharacter() {
		return nil, typeMismatch("write-char", v)
	}
	port := portOrDefault(as, 1, interp.defaultOutputPort())
	if !port.IsOutputPort() {
		return nil, typeMismatch("write-char", port)
	}
	port.out.Write([]byte{v.char})
	return NewSymbolValue(interp.wk.ok), nil
}

func primWrite(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	as := argSlice(args)
	if len(as) == 0 {
		return nil, evalError("write: expected at least 1 argument")
	}
	v := as[0]
	port := portOrDefault(as, 1, interp.defaultOutputPort())
	if !port.IsOutputPort() {
		return nil, typeMismatch("write", port)
	}
	Write(v, port.out)
	return NewSymbolValue(interp.wk.ok), nil
}

func primError(interp *Interpreter, args *Value) (*Value, *SchemeError) {
	as := argSlice(args)
	var msg string
	for i, v := range as {
		if i > 0 {
			msg += " "
		}
		msg += writeToString(v)
	}
	return nil, evalError("%s", msg)
}
