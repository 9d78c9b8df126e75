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

package bridge_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
)

// TestConcurrentBridge runs request and response bridging from many
// goroutines against one bridge; every call must yield the same chain.
func TestConcurrentBridge(t *testing.T) {
	f := newFixture(t, verifying())
	ctx := context.Background()

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 4
	errs := make(chan error, workers)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				up, err := f.brg.BridgeRequest(ctx, orderV1{ID: i}, order3)
				if err != nil {
					errs <- err
					return
				}
				if n := len(up.(orderV3).Trail); n != 2 {
					t.Errorf("upgrade trail length = %d, want 2", n)
					return
				}
				if _, err := f.brg.BridgeResponse(ctx, up, order1); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("bridge: %v", err)
	}
}
