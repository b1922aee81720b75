package graph

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-proc/proc/processor"
)

type description struct {
	Nodes       []nodeDescription       `json:"nodes"`
	Connections []connectionDescription `json:"connections"`
}

type nodeDescription struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

type connectionDescription struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromPort int    `json:"fromPort,omitempty"`
	ToPort   int    `json:"toPort,omitempty"`
}

// Load builds a graph from its JSON description:
//
//	{
//	  "nodes": [{"id": "osc", "type": "oscillator", "params": {"freq": 440}}],
//	  "connections": [{"from": "osc", "to": "out", "fromPort": 0, "toPort": 0}]
//	}
//
// Every node type must be registered in reg. Connections are checked like
// Connect, so cycles and kind mismatches are rejected.
func Load(reg *Registry, raw []byte, opts ...Option) (*Graph, error) {
	var desc description
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("invalid graph json: %w", err)
	}

	g := New(opts...)

	for _, nd := range desc.Nodes {
		factory := reg.Lookup(nd.Type)
		if factory == nil {
			return nil, fmt.Errorf("%w: node %q has type %q", ErrUnknownType, nd.ID, nd.Type)
		}

		num, str := parseParams(nd.Params)
		p, err := factory(Params{ID: nd.ID, Type: nd.Type, Num: num, Str: str})
		if err != nil {
			return nil, fmt.Errorf("build node %q: %w", nd.ID, err)
		}

		if _, err := g.AddNodeWithID(processor.NodeID(nd.ID), p); err != nil {
			return nil, err
		}
	}

	for _, c := range desc.Connections {
		from := processor.Port{Node: processor.NodeID(c.From), Index: c.FromPort}
		to := processor.Port{Node: processor.NodeID(c.To), Index: c.ToPort}
		if err := g.Connect(from, to); err != nil {
			return nil, fmt.Errorf("connect %s -> %s: %w", from, to, err)
		}
	}

	g.log.V(1).Info("graph loaded", "nodes", len(desc.Nodes), "connections", len(desc.Connections))
	return g, nil
}
