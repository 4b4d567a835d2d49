package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/synastry/internal/adapters/http/api"
	"github.com/okian/synastry/internal/adapters/repository"
	service "github.com/okian/synastry/internal/app"
	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/numerology"
	"github.com/okian/synastry/internal/domain/overlay"
	"github.com/okian/synastry/internal/domain/strength"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDependencies struct {
	report    synastry.PairReport
	scoreErr  error
	scoredA   chart.Person
	scoredB   chart.Person
	submitted []model.Job
	submitErr error
	duplicate bool
	records   map[string]repository.Record
	top       []types.MatchEntry
	topErr    error
	topN      int
	strengths service.StrengthReport
	chart     chart.Chart
}

func (m *mockDependencies) ScorePair(_ context.Context, a, b chart.Person) (synastry.PairReport, error) {
	m.scoredA, m.scoredB = a, b
	return m.report, m.scoreErr
}

func (m *mockDependencies) Submit(_ context.Context, job model.Job) (service.SubmitResult, error) {
	if m.submitErr != nil {
		return service.SubmitResult{}, m.submitErr
	}
	if job.ID == "" {
		job.ID = "generated"
	}
	m.submitted = append(m.submitted, job)
	return service.SubmitResult{ID: job.ID, Duplicate: m.duplicate}, nil
}

func (m *mockDependencies) Report(_ context.Context, id string) (repository.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return repository.Record{}, repository.ErrNotFound
	}
	return rec, nil
}

func (m *mockDependencies) Top(_ context.Context, n int) ([]types.MatchEntry, error) {
	m.topN = n
	if m.topErr != nil {
		return nil, m.topErr
	}
	if n > len(m.top) {
		return m.top, nil
	}
	return m.top[:n], nil
}

func (m *mockDependencies) Numerology(_ context.Context, a, b string) (numerology.Pair, error) {
	return numerology.ComputePair(a, b)
}

func (m *mockDependencies) Strengths(_ context.Context, c chart.Chart) service.StrengthReport {
	m.chart = c
	return m.strengths
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

const personA = `{"profile":{"name":"Anna","birth":"25.02.1992","gender":"female"},
	"chart":{"ascendant":"Aries","planets":[{"name":"Su","house":11},{"name":"Mo","house":3}]}}`

const personB = `{"name":"Mikhail","birth":"19.01.1985","gender":"male","asc_sign":"Leo",
	"planets":{"Su":{"house":6},"Mo":{"house":7}}}`

func pairBody(id string) string {
	if id == "" {
		return `{"a":` + personA + `,"b":` + personB + `}`
	}
	return `{"id":"` + id + `","a":` + personA + `,"b":` + personB + `}`
}

func newMux(deps *mockDependencies, stats map[string]any) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: stats}, 50).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps, map[string]any{"started": true})

		Convey("Then /healthz serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats returns the provider snapshot", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["started"], ShouldEqual, true)
		})

		Convey("Then wrong methods are not found", func() {
			So(do(mux, http.MethodGet, "/synastry", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/matches", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/stats", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSynastryHandler(t *testing.T) {
	Convey("Given a scorer returning a fixed report", t, func() {
		deps := &mockDependencies{report: synastry.PairReport{
			AtoB: synastry.Report{Direction: synastry.AtoB, FinalPercent: 70,
				Overlays: []overlay.Overlay{{From: "A", Rule: overlay.Rule{Planet: chart.Venus, TargetHouse: 7, Label: "marriage"}}}},
			BtoA: synastry.Report{Direction: synastry.BtoA, FinalPercent: 61},
		}}
		mux := newMux(deps, nil)

		Convey("When both persons are posted", func() {
			w := do(mux, http.MethodPost, "/synastry", pairBody(""))

			Convey("Then both reports and the mean are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["mean"], ShouldEqual, 65.5)
				So(body["a_to_b"].(map[string]any)["final_percent"], ShouldEqual, 70.0)
				So(body["b_to_a"].(map[string]any)["final_percent"], ShouldEqual, 61.0)
				So(body["overlay_text"], ShouldHaveLength, 1)
			})

			Convey("Then both persons are normalised", func() {
				So(deps.scoredA.Profile.Name, ShouldEqual, "Anna")
				So(deps.scoredA.Chart.AscSign, ShouldEqual, chart.Aries)
				So(deps.scoredB.Profile.Gender, ShouldEqual, chart.GenderMale)
				So(deps.scoredB.Chart.Planets, ShouldHaveLength, 2)
			})
		})

		Convey("When the body is malformed", func() {
			w := do(mux, http.MethodPost, "/synastry", `{"a":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["error"], ShouldEqual, "bad_request")
		})

		Convey("When a person is missing", func() {
			w := do(mux, http.MethodPost, "/synastry", `{"a":`+personA+`}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a chart has no planets", func() {
			w := do(mux, http.MethodPost, "/synastry", `{"a":`+personA+`,"b":{"planets":[]}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["message"], ShouldContainSubstring, "invalid chart")
		})

		Convey("When scoring fails", func() {
			deps.scoreErr = context.Canceled
			w := do(mux, http.MethodPost, "/synastry", pairBody(""))
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestJobsHandler(t *testing.T) {
	Convey("Given a jobs endpoint", t, func() {
		deps := &mockDependencies{records: map[string]repository.Record{
			"done-1": {Job: model.Job{ID: "done-1"}, Status: model.JobDone},
			"nan-1": {Job: model.Job{ID: "nan-1", A: chart.Person{Chart: chart.Chart{
				Planets: []chart.Planet{{Name: chart.Sun, House: 1, HouseStrength: math.NaN()}},
			}}}, Status: model.JobQueued},
		}}
		mux := newMux(deps, nil)

		Convey("When a pair is submitted with an id", func() {
			w := do(mux, http.MethodPost, "/jobs", pairBody(" job-7 "))

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				body := decode(w)
				So(body["id"], ShouldEqual, "job-7")
				So(body["status"], ShouldEqual, "queued")
				So(body["duplicate"], ShouldEqual, false)
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].A.Profile.Name, ShouldEqual, "Anna")
			})
		})

		Convey("When a pair is submitted without an id", func() {
			w := do(mux, http.MethodPost, "/jobs", pairBody(""))
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(decode(w)["id"], ShouldEqual, "generated")
		})

		Convey("When the job was seen before", func() {
			deps.duplicate = true
			w := do(mux, http.MethodPost, "/jobs", pairBody("job-7"))
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(decode(w)["duplicate"], ShouldEqual, true)
		})

		Convey("When the queue is full", func() {
			deps.submitErr = service.ErrBackpressure
			w := do(mux, http.MethodPost, "/jobs", pairBody(""))
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decode(w)["error"], ShouldEqual, "backpressure")
		})

		Convey("When the service is not started", func() {
			deps.submitErr = service.ErrNotStarted
			w := do(mux, http.MethodPost, "/jobs", pairBody(""))
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When a known job is fetched", func() {
			w := do(mux, http.MethodGet, "/jobs/done-1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "done")
		})

		Convey("When a record cannot be encoded", func() {
			w := do(mux, http.MethodGet, "/jobs/nan-1", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode(w)["error"], ShouldEqual, "encode_failed")
		})

		Convey("When an unknown job is fetched", func() {
			w := do(mux, http.MethodGet, "/jobs/missing", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["error"], ShouldEqual, "not_found")
		})

		Convey("When the id is empty", func() {
			So(do(mux, http.MethodGet, "/jobs/", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestMatchesHandler(t *testing.T) {
	Convey("Given three ranked matches", t, func() {
		deps := &mockDependencies{top: []types.MatchEntry{
			{Rank: 1, JobID: "a", Percent: 80},
			{Rank: 2, JobID: "b", Percent: 70},
			{Rank: 3, JobID: "c", Percent: 60},
		}}
		mux := newMux(deps, nil)

		Convey("When no limit is given", func() {
			w := do(mux, http.MethodGet, "/matches", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.topN, ShouldEqual, 10)
			So(decode(w)["matches"], ShouldHaveLength, 3)
		})

		Convey("When a limit is given", func() {
			w := do(mux, http.MethodGet, "/matches?limit=2", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			matches := decode(w)["matches"].([]any)
			So(matches, ShouldHaveLength, 2)
			So(matches[0].(map[string]any)["job_id"], ShouldEqual, "a")
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-3", "abc"} {
				w := do(mux, http.MethodGet, "/matches?limit="+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldEqual, "invalid_limit")
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			w := do(mux, http.MethodGet, "/matches?limit=51", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["error"], ShouldEqual, "limit_exceeded")
		})

		Convey("When nothing is ranked yet", func() {
			deps.top = nil
			w := do(mux, http.MethodGet, "/matches", "")
			So(w.Body.String(), ShouldContainSubstring, `"matches":[]`)
		})

		Convey("When the store fails", func() {
			deps.topErr = errors.New("boom")
			So(do(mux, http.MethodGet, "/matches", "").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestNumerologyHandler(t *testing.T) {
	Convey("Given the numerology endpoint", t, func() {
		mux := newMux(&mockDependencies{}, nil)

		Convey("When two valid dates are posted", func() {
			w := do(mux, http.MethodPost, "/numerology", `{"a":"25.02.1992","b":"19.01.1985"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["a_to_b"].(map[string]any)["percent"], ShouldEqual, 75.0)
			So(body["b_to_a"].(map[string]any)["percent"], ShouldEqual, 68.75)
		})

		Convey("When a date cannot be parsed", func() {
			w := do(mux, http.MethodPost, "/numerology", `{"a":"someday","b":"19.01.1985"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStrengthHandler(t *testing.T) {
	Convey("Given the strength endpoint", t, func() {
		deps := &mockDependencies{strengths: service.StrengthReport{
			Planets: []strength.PlanetStrength{{Planet: chart.Sun}},
		}}
		mux := newMux(deps, nil)

		Convey("When a bare chart is posted", func() {
			w := do(mux, http.MethodPost, "/strength", `{"planets":[{"name":"Sun","house":10,"exalted":true}]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.chart.Planets, ShouldHaveLength, 1)
			So(deps.chart.Planets[0].Dignity, ShouldEqual, chart.DignityExalted)
			So(decode(w)["planets"], ShouldHaveLength, 1)
		})

		Convey("When a person wrapping a chart is posted", func() {
			w := do(mux, http.MethodPost, "/strength", `{"chart":{"planets":[{"name":"Mo","house":4}]}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.chart.Planets[0].Name, ShouldEqual, chart.Moon)
		})

		Convey("When the chart is empty", func() {
			So(do(mux, http.MethodPost, "/strength", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("cause")
		err := api.WrapKind("api.x", api.ErrNotFound, cause)

		Convey("Then kind and cause are both matched", func() {
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.x: not found: cause")
		})

		Convey("Then NewKind and Wrap format their parts", func() {
			So(api.NewKind("api.y", api.ErrBadRequest).Error(), ShouldEqual, "api.y: bad request")
			So(api.Wrap("api.z", cause).Error(), ShouldEqual, "api.z: cause")
			So(api.Wrap("api.z", nil), ShouldBeNil)
		})
	})
}
