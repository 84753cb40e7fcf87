package main

import (
	"fmt"
	"net/url"
	"os"

	router "github.com/conveyGhost/next.js"
	"gopkg.in/yaml.v3"
)

// fixture is a recorded page state and the server responses that followed
// it. Trees, seeds and flight data use the wire encoding, so JSON captured
// from a browser can be pasted in as is.
type fixture struct {
	CanonicalURL string        `yaml:"canonicalUrl"`
	Tree         interface{}   `yaml:"tree"`
	Seed         interface{}   `yaml:"seed"`
	Head         interface{}   `yaml:"head"`
	PendingPush  bool          `yaml:"pendingPush"`
	Responses    []responseFix `yaml:"responses"`
}

type responseFix struct {
	CanonicalURL string      `yaml:"canonicalUrl"`
	FlightData   interface{} `yaml:"flightData"`
}

func loadFixture(path string) (*fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *fixture) routeTree() (*router.RouteTree, error) {
	if f.Tree == nil {
		return nil, fmt.Errorf("fixture has no tree")
	}
	return router.DecodeRouterState(normalize(f.Tree))
}

func (f *fixture) state() (router.State, error) {
	tree, err := f.routeTree()
	if err != nil {
		return router.State{}, fmt.Errorf("tree: %w", err)
	}
	seed, err := router.DecodeSeedData(normalize(f.Seed))
	if err != nil {
		return router.State{}, fmt.Errorf("seed: %w", err)
	}
	state := router.NewState(f.CanonicalURL, tree, seed, normalize(f.Head))
	state.PushRef.PendingPush = f.PendingPush
	return state, nil
}

func (r responseFix) serverResponse() (router.ServerResponse, error) {
	data, err := router.DecodeFlightData(normalize(r.FlightData))
	if err != nil {
		return router.ServerResponse{}, err
	}
	resp := router.ServerResponse{FlightData: data}
	if r.CanonicalURL != "" {
		if resp.CanonicalURL, err = url.Parse(r.CanonicalURL); err != nil {
			return router.ServerResponse{}, fmt.Errorf("canonical url: %w", err)
		}
	}
	return resp, nil
}

// normalize converts what yaml decodes into the shapes JSON decoding
// produces, which the router's decoders expect.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case int:
		return float64(v)
	default:
		return v
	}
}
