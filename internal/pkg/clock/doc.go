// Package clock provides a tiny time abstraction.
//
// Code derivation depends on the current unix second, so business logic reads
// time through the Clocker interface. Production wiring uses TimeClocker and
// tests pin the instant with FixedClocker.
package clock
