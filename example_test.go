package lens_test

import (
	"fmt"
	"math"

	"honnef.co/go/lens"
)

func ExampleSphere_Sag() {
	s := lens.NewSphere(100)
	z, err := s.Sag(10)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.6f\n", z)

	// A flat surface has no sag anywhere.
	flat := lens.NewSphere(math.Inf(1))
	z, _ = flat.Sag(10)
	fmt.Println(z)

	// Output:
	// 0.501256
	// 0
}

func ExampleTabulate() {
	s := &lens.Sphere{InnerDiameter: 4, OuterDiameter: 5, Radius: 50}
	inner, _ := s.Diameters()
	rows, err := lens.Tabulate(s, lens.Heights(inner/2, 0.5))
	if err != nil {
		panic(err)
	}
	fmt.Println("h sag slope local_R")
	for _, r := range rows {
		fmt.Printf("%.4f %.4f %.4f %.4f\n", r.H, r.Sag, r.Slope, r.LocalRadius)
	}

	// Output:
	// h sag slope local_R
	// 0.0000 0.0000 0.0000 50.0000
	// 0.5000 0.0025 0.5730 50.0000
	// 1.0000 0.0100 1.1460 50.0000
	// 1.5000 0.0225 1.7191 50.0000
}

func ExampleOddAsphere() {
	// A flat base with a single cubic term, A3.
	s := lens.NewOddAsphere(math.Inf(1), 0, []float64{1e-4})
	z, _ := s.Sag(5)
	fmt.Println(s.CoefficientLabel(0), z)

	// Output:
	// A3 0.0125
}

func ExampleLens_Outline() {
	l := lens.NewLens()
	l.Name = "window"
	l.Thickness = 4
	for _, s := range []lens.Surface{l.Left, l.Right} {
		s := s.(*lens.Sphere)
		s.InnerDiameter = 10
		s.OuterDiameter = 12
	}

	p, err := l.Outline(0.01)
	if err != nil {
		panic(err)
	}
	fmt.Println(p.SVG(lens.SVGOptions{MaxPrecision: 3}))

	// Output:
	// M0,6 L0,5 L0,0 L0,-5 L0,-6 L4,-6 L4,-5 L4,0 L4,5 L4,6 Z
}
