// Package lang implements the simulation description language: a lexer, a
// recursive-descent parser producing an arena-interned AST, and a
// tree-walking interpreter whose side effects seed a sim.Scheduler.
//
// A program is a sequence of expression statements. Constants configure the
// scheduler (schedule_policy = RoundRobin, threads_count = 4), builtin calls
// spawn processes (spawn_process, spawn_random_process), and for loops repeat
// side-effectful bodies over half-open integer ranges.
//
// Lex and parse errors abort the whole program with a line:column position.
// Interpreter errors are per-statement: the offending statement yields Nil
// and is logged, and evaluation continues with the next statement.
package lang
