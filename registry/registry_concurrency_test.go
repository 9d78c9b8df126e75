/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry_test

import (
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/registry"
)

var entities = []string{"E0", "E1", "E2", "E3", "E4", "E5", "E6", "E7", "E8", "E9"}

// TestConcurrentRegisterAndLookup verifies that Register/Graph/Entities/Count
// are race-free and that every edge is accepted exactly once.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := registry.New(nil)

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	var mu sync.Mutex
	accepted := 0

	// Writers (racing on the same edges)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				e := entities[(i+id)%len(entities)]
				v := i%20 + 1
				rep := reg.Register(named(e, v, v+1, e))
				mu.Lock()
				accepted += rep.Accepted
				mu.Unlock()
			}
		}(w)
	}

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if g, ok := reg.Graph(entities[i%len(entities)]); ok {
					_, _ = g.Get(1, 2)
					_ = g.Count()
				}
				_ = reg.Count()
				_ = reg.Entities()
			}
		}()
	}

	wg.Wait()

	// Each (entity, v -> v+1) edge can only be won once.
	if want := len(entities) * 20; accepted != want {
		t.Fatalf("accepted = %d, want %d", accepted, want)
	}
	if reg.Count() != len(entities) {
		t.Fatalf("Count() = %d, want %d", reg.Count(), len(entities))
	}
	for _, e := range entities {
		g, ok := reg.Graph(e)
		if !ok {
			t.Fatalf("Graph(%q) missing", e)
		}
		if g.Count() != 20 {
			t.Fatalf("Graph(%q).Count() = %d, want 20", e, g.Count())
		}
	}
}

// TestSealRacesRegister ensures that sealing concurrently with registration
// never loses an accepted edge and leaves every graph frozen.
func TestSealRacesRegister(t *testing.T) {
	reg := registry.New(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for v := 1; v < 99; v++ {
			reg.Register(named("Order", v, v+1, "x"))
		}
	}()
	go func() {
		defer wg.Done()
		runtime.Gosched()
		reg.Seal()
	}()
	wg.Wait()

	if !reg.Sealed() {
		t.Fatalf("registry not sealed")
	}
	if g, ok := reg.Graph("Order"); ok {
		if !g.Sealed() {
			t.Fatalf("graph not sealed after registry Seal")
		}
		for v := 1; v <= g.Count(); v++ {
			if _, ok := g.Get(v, v+1); !ok {
				t.Fatalf("edge %d->%d missing; accepted edges must be a prefix", v, v+1)
			}
		}
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(nil)

// TestSealRacesGraphCreation seals while new entities are being registered.
// A graph is published only together with its first edge, so no graph may
// be left empty.
func TestSealRacesGraphCreation(t *testing.T) {
	for round := 0; round < 50; round++ {
		reg := registry.New(nil)

		var wg sync.WaitGroup
		workers := runtime.GOMAXPROCS(0) * 2
		wg.Add(workers + 1)
		for w := 0; w < workers; w++ {
			go func(id int) {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					reg.Register(named(entities[(i+id)%len(entities)]+"-"+entities[id%len(entities)], 1, 2, "x"))
				}
			}(w)
		}
		go func() {
			defer wg.Done()
			runtime.Gosched()
			reg.Seal()
		}()
		wg.Wait()

		for _, e := range reg.Entities() {
			g, ok := reg.Graph(e)
			if !ok || g.Count() != 1 {
				t.Fatalf("round %d: graph %q has no edge after a sealed registration", round, e)
			}
		}
	}
}
