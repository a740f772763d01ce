// Package physics provides the mass-spring-damper model.
//
// [MassSpringDamper] implements [dynamo.Oscillator] and [dynamo.Hamiltonian].
// Its derived quantities (natural frequency, period, critical damping,
// damping ratio, settling time) are computed once when the value is built
// and are replaced together by [MassSpringDamper.Set].
//
// # Validation
//
// [Validate] checks each input against its allowed range independently:
//
//	v := physics.Validate(m, c, k, x0, v0)
//	for _, f := range v.Invalid() {
//	    fmt.Printf("%s must satisfy %s\n", f, f.Range())
//	}
package physics
