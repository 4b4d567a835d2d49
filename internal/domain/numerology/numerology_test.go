package numerology_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/synastry/internal/domain/numerology"
)

func TestParseDOB(t *testing.T) {
	Convey("Given birth dates in supported formats", t, func() {
		cases := []struct {
			in   string
			want numerology.DOB
		}{
			{"1992-02-25", numerology.DOB{Day: 25, Month: 2, Year: 1992}},
			{"1992-02-25T10:30:00Z", numerology.DOB{Day: 25, Month: 2, Year: 1992}},
			{"25.02.1992", numerology.DOB{Day: 25, Month: 2, Year: 1992}},
			{"  7-3-1986 ", numerology.DOB{Day: 7, Month: 3, Year: 1986}},
			{"19/01/85", numerology.DOB{Day: 19, Month: 1, Year: 1985}},
			{"19 октября 1984", numerology.DOB{Day: 19, Month: 10, Year: 1984}},
			{"19 Октября 1984 г.", numerology.DOB{Day: 19, Month: 10, Year: 1984}},
			{"1 май 2000г", numerology.DOB{Day: 1, Month: 5, Year: 2000}},
			{"２５.０２.１９９２", numerology.DOB{Day: 25, Month: 2, Year: 1992}},
		}
		for _, tc := range cases {
			got, err := numerology.ParseDOB(tc.in)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, tc.want)
		}
	})

	Convey("Given unparsable input", t, func() {
		for _, in := range []string{"", "yesterday", "19 brumaire 1799", "1992/02"} {
			_, err := numerology.ParseDOB(in)
			So(errors.Is(err, numerology.ErrUnparsableDate), ShouldBeTrue)
		}
	})

	Convey("Given an impossible calendar date", t, func() {
		_, err := numerology.ParseDOB("31.02.1990")
		So(errors.Is(err, numerology.ErrInvalidDate), ShouldBeTrue)
	})
}

func TestReduce19(t *testing.T) {
	Convey("Given positive integers", t, func() {
		Convey("Reduction should never return 0 and be idempotent", func() {
			for n := 0; n < 5000; n++ {
				r := numerology.Reduce19(n)
				So(r, ShouldBeBetweenOrEqual, 1, 9)
				So(numerology.Reduce19(r), ShouldEqual, r)
			}
		})

		Convey("Known values should reduce", func() {
			So(numerology.Reduce19(0), ShouldEqual, 9)
			So(numerology.Reduce19(19), ShouldEqual, 1)
			So(numerology.Reduce19(30), ShouldEqual, 3)
			So(numerology.Reduce19(99), ShouldEqual, 9)
		})
	})
}

func TestRelations(t *testing.T) {
	Convey("Given the relation table", t, func() {
		So(numerology.SignOf(7, 1), ShouldEqual, numerology.RelPlus)
		So(numerology.SignOf(7, 3), ShouldEqual, numerology.RelStar)
		So(numerology.SignOf(7, 8), ShouldEqual, numerology.RelMinus)
		So(numerology.SignOf(7, 7), ShouldEqual, numerology.RelNeutral)
		So(numerology.SignOf(0, 1), ShouldEqual, numerology.RelNeutral)

		So(numerology.ValOf(numerology.RelPlus), ShouldEqual, 2)
		So(numerology.ValOf(numerology.RelStar), ShouldEqual, 1)
		So(numerology.ValOf(numerology.RelMinus), ShouldEqual, -2)
		So(numerology.ValOf(numerology.RelNeutral), ShouldEqual, 0)
	})
}

func TestFixtures(t *testing.T) {
	Convey("Given Anna and Mikhail", t, func() {
		anna, err := numerology.ParseDOB("25.02.1992")
		So(err, ShouldBeNil)
		mikhail, err := numerology.ParseDOB("19.01.1985")
		So(err, ShouldBeNil)

		So(numerology.SoulNumber(anna), ShouldEqual, 7)
		So(numerology.DestinyNumber(anna), ShouldEqual, 3)
		So(numerology.SoulNumber(mikhail), ShouldEqual, 1)
		So(numerology.DestinyNumber(mikhail), ShouldEqual, 7)

		pair, err := numerology.ComputePair("25.02.1992", "19.01.1985")
		So(err, ShouldBeNil)
		So(pair.AtoB.Sum, ShouldEqual, 4)
		So(pair.AtoB.Percent, ShouldEqual, 75.0)
		So(pair.BtoA.Sum, ShouldEqual, 3)
		So(pair.BtoA.Percent, ShouldEqual, 68.75)
	})

	Convey("Given Vitaliy and Leyla", t, func() {
		pair, err := numerology.ComputePair("21.02.1987", "07.03.1986")
		So(err, ShouldBeNil)
		So(pair.AtoB.From, ShouldResemble, numerology.Numbers{Soul: 3, Destiny: 3})
		So(pair.AtoB.To, ShouldResemble, numerology.Numbers{Soul: 7, Destiny: 7})
		So(pair.AtoB.Sum, ShouldEqual, 0)
		So(pair.AtoB.Percent, ShouldEqual, 50.0)
		So(pair.BtoA.Sum, ShouldEqual, 4)
		So(pair.BtoA.Percent, ShouldEqual, 75.0)
	})

	Convey("Given a single direction", t, func() {
		d, err := numerology.ComputeDirection("07.03.1986", "21.02.1987")
		So(err, ShouldBeNil)
		So(d.Sum, ShouldEqual, 4)
		for _, l := range d.Links {
			So(l.Relation, ShouldEqual, numerology.RelStar)
		}

		_, err = numerology.ComputeDirection("nope", "21.02.1987")
		So(err, ShouldNotBeNil)
	})
}
