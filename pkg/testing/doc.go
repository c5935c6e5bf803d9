// Package testing provides a harness for testing composed components
// without a real toolkit.
//
// # Quick Start
//
// Create a tester, mount a class, and make assertions:
//
//	func TestProfile(t *testing.T) {
//	    tester := composetest.NewTesterWithT(t)
//	    p := composetest.MustMount(t, tester, profileClass)
//
//	    // Simulate input
//	    tester.EnterText(p, composetest.ByName("name"), "ada")
//
//	    // Assert state
//	    if !tester.Find(p, composetest.ByText("ADA (0)")).Exists() {
//	        t.Error("expected the title to follow the name")
//	    }
//	}
//
// Mount builds the class on the tester's own dispatch loop and fake clock.
// Errors and panics reported through the global handler are collected and
// available from Errors and Panics.
//
// # Snapshot Testing
//
// Capture and compare component tree snapshots:
//
//	composetest.Capture(p).MatchesFile(t, "testdata/profile.snapshot.json")
//
// Update snapshots with:
//
//	COMPOSE_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Undo Testing
//
// Control time for deterministic undo grouping:
//
//	tester.Clock().Advance(300 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import composetest "github.com/go-drift/compose/pkg/testing"
package testing
