package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/physics"
)

var _ = Describe("Run termination", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	run := func(integ dynamo.Integrator, osc physics.MassSpringDamper) *Result {
		result, err := New(integ).Run(context.Background(), osc, cfg)
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	Context("underdamped (zeta = 0.1)", func() {
		osc := physics.MustNew(1, 0.4, 4, 1, 0)

		DescribeTable("settles by peak decay before the cap",
			func(integ dynamo.Integrator) {
				result := run(integ, osc)
				tr := result.Trajectory
				dt := cfg.StepSize(osc.NaturalFrequency())
				bound := int(100*osc.Period()/dt) + 1

				Expect(tr.Dt).To(Equal(0.01))
				Expect(tr.Reason).To(Equal(dynamo.StopPeakDecay))
				Expect(tr.Len()).To(BeNumerically("<", bound))
				Expect(tr.At(0)).To(Equal(dynamo.State{1, 0}))
				Expect(tr.Acceleration[0]).To(Equal(-4.0))
			},
			Entry("semi-implicit Euler", integrators.NewSemiImplicitEuler()),
			Entry("RK4", integrators.NewRK4()),
		)

		It("stops once the last two peaks are below 2% of the first", func() {
			tr := run(integrators.NewRK4(), osc).Trajectory
			x := tr.Position

			var peaks []int
			for i := 3; i < len(x); i++ {
				if isPeak(x, i-1) {
					peaks = append(peaks, i-1)
				}
			}
			Expect(len(peaks)).To(BeNumerically(">=", 3))

			last := peaks[len(peaks)-1]
			Expect(last).To(Equal(tr.Len() - 2))

			ref := math.Abs(x[peaks[0]])
			Expect(math.Abs(x[last])).To(BeNumerically("<", 0.02*ref))
			Expect(math.Abs(x[peaks[len(peaks)-2]])).To(BeNumerically("<", 0.02*ref))
			Expect(math.Abs(x[peaks[len(peaks)-3]])).To(BeNumerically(">=", 0.02*ref))
		})

		It("agrees with the analytic solution more closely with RK4 than Euler", func() {
			exact := run(integrators.NewAnalytic(), osc).Trajectory
			rk4 := run(integrators.NewRK4(), osc).Trajectory
			euler := run(integrators.NewSemiImplicitEuler(), osc).Trajectory

			n := min(exact.Len(), rk4.Len(), euler.Len())
			var errRK4, errEuler float64
			for i := 0; i < n; i++ {
				errRK4 = math.Max(errRK4, math.Abs(rk4.Position[i]-exact.Position[i]))
				errEuler = math.Max(errEuler, math.Abs(euler.Position[i]-exact.Position[i]))
			}
			Expect(errRK4).To(BeNumerically("<", 1e-6))
			Expect(errRK4).To(BeNumerically("<", errEuler))
		})
	})

	Context("overdamped (zeta = 2.5)", func() {
		osc := physics.MustNew(1, 10, 4, 1, 0)

		DescribeTable("ends exactly at floor(2T/dt)",
			func(integ dynamo.Integrator) {
				tr := run(integ, osc).Trajectory
				horizon := int(2 * osc.Period() / tr.Dt)

				Expect(tr.Reason).To(Equal(dynamo.StopHorizon))
				Expect(tr.Len()).To(Equal(horizon + 1))
				Expect(horizon).To(Equal(628))
			},
			Entry("semi-implicit Euler", integrators.NewSemiImplicitEuler()),
			Entry("RK4", integrators.NewRK4()),
			Entry("analytic", integrators.NewAnalytic()),
		)

		It("never produces a peak", func() {
			tr := run(integrators.NewRK4(), osc).Trajectory
			for i := 3; i < tr.Len(); i++ {
				Expect(isPeak(tr.Position, i-1)).To(BeFalse(), "peak at %d", i-1)
			}
		})
	})

	Context("without decaying peaks", func() {
		It("stops at the iteration cap for an undamped oscillator", func() {
			osc := physics.MustNew(1, 0, 4, 1, 0)
			tr := run(integrators.NewRK4(), osc).Trajectory

			Expect(tr.Reason).To(Equal(dynamo.StopIterationCap))
			Expect(tr.Len()).To(Equal(cfg.MaxSteps(osc.Period(), tr.Dt)))
		})

		It("stops at the iteration cap for a critically damped oscillator", func() {
			osc := physics.MustNew(1, 4, 4, 1, 0)
			Expect(osc.DampingRatio()).To(Equal(1.0))

			tr := run(integrators.NewRK4(), osc).Trajectory
			Expect(tr.Reason).To(Equal(dynamo.StopIterationCap))
			Expect(tr.Len()).To(Equal(31415))
		})
	})

	It("uses a step below 10 ms for fast systems", func() {
		osc := physics.MustNew(0.01, 1, 1e4, 0.1, 0)
		tr := run(integrators.NewRK4(), osc).Trajectory

		Expect(tr.Dt).To(BeNumerically("~", 0.1/1000, 1e-15))
		Expect(tr.Reason).To(Equal(dynamo.StopPeakDecay))
	})
})
