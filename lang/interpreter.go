package lang

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sched-sim/sched-sim/sim"
)

// constantNames lists the configuration constants the interpreter recognizes,
// in the order they are reported to the user.
const constantNames = "schedule_policy, max_processes, max_events_per_process, " +
	"max_single_event_duration, max_arrival_time, threads_count"

// eventTupleHint is appended to event-list type errors.
const eventTupleHint = "(e.g. [(event_type: `Io` or `Cpu`, duration: int)])"

// Interpreter walks a parsed program and applies its effects to a scheduler.
// Each interpreter owns its RNG streams and its used-pid set, so concurrent
// tests never share random state.
type Interpreter struct {
	sched *sim.Scheduler
	ast   *Ast

	spawnRNG    *rand.Rand
	usageRNG    *rand.Rand
	spawnedPIDs map[uint64]bool
}

// Eval lexes, parses, and interprets source against sched. Lex and parse
// errors short-circuit the whole program; interpreter errors are logged per
// statement and evaluation continues.
func Eval(source string, sched *sim.Scheduler, rng *sim.PartitionedRNG) error {
	tokens, err := Lex(source)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	ast, err := Parse(tokens)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	New(sched, ast, rng).Run()
	return nil
}

// New builds an interpreter over an already-parsed program.
func New(sched *sim.Scheduler, ast *Ast, rng *sim.PartitionedRNG) *Interpreter {
	return &Interpreter{
		sched:       sched,
		ast:         ast,
		spawnRNG:    rng.ForSubsystem(sim.SubsystemSpawn),
		usageRNG:    rng.ForSubsystem(sim.SubsystemUsage),
		spawnedPIDs: make(map[uint64]bool),
	}
}

// Run evaluates every top-level statement in order. A failed statement is
// reported and yields Nil; later statements still run.
func (in *Interpreter) Run() {
	for _, statement := range in.ast.Statements {
		expr := in.ast.ExpressionByID(statement.ID)
		if _, err := in.evaluateExpression(expr); err != nil {
			logrus.Errorf("interpreter: %v", err)
		}
	}
}

func (in *Interpreter) evaluateExpression(expr Expression) (Value, error) {
	switch expr.Kind {
	case ExprCall:
		return in.evaluateCall(expr)
	case ExprStringLiteral:
		return StringValue(expr.Literal.Lexeme), nil
	case ExprNumber:
		n, err := parseNumber(expr.Literal)
		if err != nil {
			return NilValue(), err
		}
		return NumberValue(n), nil
	case ExprList, ExprTuple:
		return in.evaluateElements(expr.Elements)
	case ExprVariable:
		// Variables are late-bound identifiers; their lexeme is the value.
		return StringValue(expr.Name.Lexeme), nil
	case ExprConstant:
		return in.evaluateConstant(expr)
	case ExprRange:
		return in.evaluateRange(expr)
	case ExprFor:
		return in.evaluateFor(expr)
	default:
		panic(fmt.Sprintf("unhandled expression kind %d", uint8(expr.Kind)))
	}
}

func (in *Interpreter) evaluateElements(ids []ExpressionID) (Value, error) {
	values := make([]Value, 0, len(ids))
	for _, id := range ids {
		value, err := in.evaluateExpression(in.ast.ExpressionByID(id))
		if err != nil {
			return NilValue(), err
		}
		values = append(values, value)
	}
	return ListValue(values), nil
}

func (in *Interpreter) evaluateRange(expr Expression) (Value, error) {
	start, err := parseNumber(expr.RangeStart)
	if err != nil {
		return NilValue(), err
	}
	end, err := parseNumber(expr.RangeEnd)
	if err != nil {
		return NilValue(), err
	}
	return ListValue([]Value{NumberValue(start), NumberValue(end)}), nil
}

// evaluateFor repeats the body once per index in the half-open range. The
// loop binding is not visible to the body; bodies only repeat side effects.
// Body errors are reported but do not stop the loop.
func (in *Interpreter) evaluateFor(expr Expression) (Value, error) {
	rangeValue, err := in.evaluateExpression(in.ast.ExpressionByID(expr.Value))
	if err != nil {
		return NilValue(), err
	}

	bounds, ok := rangeValue.AsList()
	if !ok || len(bounds) != 2 {
		return NilValue(), fmt.Errorf("%s: for loop range must be `start..end`", expr.Span)
	}
	start, okStart := bounds[0].AsNumber()
	end, okEnd := bounds[1].AsNumber()
	if !okStart || !okEnd {
		return NilValue(), fmt.Errorf("%s: for loop range bounds must be numbers", expr.Span)
	}

	for i := start; i < end; i++ {
		for _, id := range expr.Elements {
			if _, err := in.evaluateExpression(in.ast.ExpressionByID(id)); err != nil {
				logrus.Errorf("interpreter: %v", err)
			}
		}
	}

	return NilValue(), nil
}

// evaluateConstant mutates the scheduler configuration named by the constant.
func (in *Interpreter) evaluateConstant(expr Expression) (Value, error) {
	name := expr.Name.Lexeme
	value := in.ast.ExpressionByID(expr.Value)

	if name == "schedule_policy" {
		if value.Kind != ExprVariable {
			return NilValue(), fmt.Errorf("%s: schedule_policy expects a policy name (e.g. FCFS, RoundRobin)", expr.Span)
		}
		kind, err := sim.TryPolicyFromString(value.Name.Lexeme)
		if err != nil {
			return NilValue(), fmt.Errorf("%s: %w", expr.Span, err)
		}
		in.sched.SwitchPolicy(sim.NewNamedPolicy(kind))
		return NilValue(), nil
	}

	if value.Kind != ExprNumber {
		if !isNumericConstant(name) {
			return NilValue(), fmt.Errorf("%s: invalid constant for current simulation: %s (available constants are: %s)",
				expr.Span, name, constantNames)
		}
		return NilValue(), fmt.Errorf("%s: constant %s expects a number", expr.Span, name)
	}
	n, err := parseNumber(value.Literal)
	if err != nil {
		return NilValue(), err
	}

	switch name {
	case "max_processes":
		in.sched.MaxProcesses = n
	case "max_events_per_process":
		in.sched.MaxEventsPerProcess = n
	case "max_single_event_duration":
		in.sched.MaxSingleEventDuration = n
	case "max_arrival_time":
		in.sched.MaxArrivalTime = n
	case "threads_count":
		if n == 0 || n > sim.MaxThreads {
			logrus.Warnf("threads_count %d out of range [1, %d], clamping", n, sim.MaxThreads)
			n = min(max(n, 1), sim.MaxThreads)
		}
		in.sched.ThreadsCount = int(n)
	default:
		return NilValue(), fmt.Errorf("%s: invalid constant for current simulation: %s (available constants are: %s)",
			expr.Span, name, constantNames)
	}

	return NilValue(), nil
}

func isNumericConstant(name string) bool {
	switch name {
	case "max_processes", "max_events_per_process", "max_single_event_duration",
		"max_arrival_time", "threads_count":
		return true
	default:
		return false
	}
}

func (in *Interpreter) evaluateCall(expr Expression) (Value, error) {
	switch expr.Name.Lexeme {
	case "spawn_process":
		return in.spawnProcessBuiltin(expr)
	case "spawn_random_process":
		return in.spawnRandomProcessBuiltin(expr)
	default:
		return NilValue(), fmt.Errorf("%s: function %q is not implemented", expr.Span, expr.Name.Lexeme)
	}
}

// spawnProcessBuiltin implements
// spawn_process(name: string, pid: int, arrival: int, events: [(kind, duration)]).
func (in *Interpreter) spawnProcessBuiltin(expr Expression) (Value, error) {
	const name = "spawn_process"
	args := expr.Elements
	if len(args) != 4 {
		return NilValue(), fmt.Errorf("%s: failed to interpret call to builtin `%s`: expected 4 arguments, %d were provided",
			expr.Span, name, len(args))
	}

	processName, err := in.stringArgument(name, args, 0)
	if err != nil {
		return NilValue(), err
	}
	pid, err := in.numberArgument(name, args, 1)
	if err != nil {
		return NilValue(), err
	}
	arrival, err := in.numberArgument(name, args, 2)
	if err != nil {
		return NilValue(), err
	}

	listValue, err := in.evaluateExpression(in.ast.ExpressionByID(args[3]))
	if err != nil {
		return NilValue(), err
	}
	list, ok := listValue.AsList()
	if !ok {
		return NilValue(), fmt.Errorf("%s: mismatched type for argument #3 of builtin `%s`: expected type `List<Tuple: Event>` %s",
			expr.Span, name, eventTupleHint)
	}

	events, err := in.eventsFromList(expr.Span, list)
	if err != nil {
		return NilValue(), err
	}

	in.sched.EmplaceProcess(processName, pid, arrival, events)
	return NilValue(), nil
}

// eventsFromList converts a list of (kind, duration) tuples to events. Each
// event draws a fresh random resource usage.
func (in *Interpreter) eventsFromList(span Span, list []Value) ([]sim.Event, error) {
	events := make([]sim.Event, 0, len(list))
	for _, tupleValue := range list {
		tuple, ok := tupleValue.AsList()
		if !ok || len(tuple) != 2 {
			return nil, fmt.Errorf("%s: each event must be a (kind, duration) tuple %s", span, eventTupleHint)
		}

		kindStr, ok := tuple[0].AsString()
		if !ok {
			return nil, fmt.Errorf("%s: event kind must be a string %s", span, eventTupleHint)
		}
		duration, ok := tuple[1].AsNumber()
		if !ok {
			return nil, fmt.Errorf("%s: event duration must be a number %s", span, eventTupleHint)
		}

		kind, err := sim.EventKindFromString(kindStr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w %s", span, err, eventTupleHint)
		}

		events = append(events, sim.NewEvent(kind, duration, in.usageRNG.Float64()))
	}
	return events, nil
}

// spawnRandomProcessBuiltin implements spawn_random_process(): a unique
// random pid, a random arrival within the configured window, and a non-empty
// random event stream.
func (in *Interpreter) spawnRandomProcessBuiltin(expr Expression) (Value, error) {
	const name = "spawn_random_process"
	if len(expr.Elements) != 0 {
		return NilValue(), fmt.Errorf("%s: failed to interpret call to builtin `%s`: expected 0 arguments, %d were provided",
			expr.Span, name, len(expr.Elements))
	}

	pid := randomNatural(in.spawnRNG, 0, in.sched.MaxProcesses)
	for in.spawnedPIDs[pid] {
		pid = randomNatural(in.spawnRNG, 0, in.sched.MaxProcesses)
	}
	in.spawnedPIDs[pid] = true

	arrival := randomNatural(in.spawnRNG, 0, in.sched.MaxArrivalTime)

	eventsCount := randomNatural(in.spawnRNG, 1, in.sched.MaxEventsPerProcess)
	events := make([]sim.Event, 0, eventsCount)
	for i := uint64(0); i < eventsCount; i++ {
		events = append(events, in.randomEvent())
	}

	in.sched.EmplaceProcess("Process", pid, arrival, events)
	return NilValue(), nil
}

func (in *Interpreter) randomEvent() sim.Event {
	kind := sim.EventCPU
	if in.spawnRNG.Intn(2) == 1 {
		kind = sim.EventIO
	}
	duration := randomNatural(in.spawnRNG, 1, in.sched.MaxSingleEventDuration)
	return sim.NewEvent(kind, duration, in.usageRNG.Float64())
}

func (in *Interpreter) stringArgument(builtin string, args []ExpressionID, idx int) (string, error) {
	expr := in.ast.ExpressionByID(args[idx])
	value, err := in.evaluateExpression(expr)
	if err != nil {
		return "", err
	}
	s, ok := value.AsString()
	if !ok {
		return "", fmt.Errorf("%s: mismatched type for argument #%d of builtin `%s`: expected type `string`",
			expr.Span, idx, builtin)
	}
	return s, nil
}

func (in *Interpreter) numberArgument(builtin string, args []ExpressionID, idx int) (uint64, error) {
	expr := in.ast.ExpressionByID(args[idx])
	value, err := in.evaluateExpression(expr)
	if err != nil {
		return 0, err
	}
	n, ok := value.AsNumber()
	if !ok {
		return 0, fmt.Errorf("%s: mismatched type for argument #%d of builtin `%s`: expected type `int`",
			expr.Span, idx, builtin)
	}
	return n, nil
}

func parseNumber(token Token) (uint64, error) {
	n, err := strconv.ParseUint(token.Lexeme, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", token.Span, token.Lexeme)
	}
	return n, nil
}

// randomNatural draws uniformly from the half-open range [lo, hi). Returns lo
// when the range is empty. Ranges wider than the int63 domain are capped.
func randomNatural(rng *rand.Rand, lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	span := hi - lo
	if span > math.MaxInt64 {
		span = math.MaxInt64
	}
	return lo + uint64(rng.Int63n(int64(span)))
}
