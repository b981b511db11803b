package zip

import "testing"

func TestSnapshotFromIndexRoundTrip(t *testing.T) {
	arc := openFixture(t, []fixtureFile{
		{name: "real.txt", content: []byte("target data"), method: methodStore},
		{name: "link", content: []byte("real.txt"), method: methodStore, symlink: true},
		{name: "big.bin", content: []byte("compress me compress me compress me"), method: methodDeflate},
	})

	snap := Snapshot(arc)
	if len(snap) != 3 {
		t.Fatalf("len(snap) = %d, want 3", len(snap))
	}

	var sawSymlinkCandidate bool
	for _, e := range snap {
		if e.Name == "link" {
			sawSymlinkCandidate = true
			if !e.IsSymlinkCandidate {
				t.Error("link entry should be flagged as a symlink candidate pre-resolution")
			}
		}
		if e.Name == "real.txt" && e.IsSymlinkCandidate {
			t.Error("real.txt is not a symlink candidate")
		}
	}
	if !sawSymlinkCandidate {
		t.Fatal("snapshot never saw the link entry")
	}

	rebuilt := FromIndex("fixture.zip", arc.opener, snap)
	if rebuilt.Len() != arc.Len() {
		t.Fatalf("rebuilt.Len() = %d, want %d", rebuilt.Len(), arc.Len())
	}

	for _, e := range rebuilt.entries {
		if e.state != stateUnresolvedFile && e.state != stateUnresolvedSymlink {
			t.Fatalf("entry %q reconstructed in non-fresh state %v", e.name, e.state)
		}
		if e.symlink != -1 {
			t.Fatalf("entry %q reconstructed with a resolved symlink index", e.name)
		}
	}

	// The reconstructed archive must still resolve and read correctly:
	// FromIndex skips re-parsing the central directory, never resolution.
	f, err := rebuilt.OpenRead("link")
	if err != nil {
		t.Fatalf("OpenRead(link) on rebuilt archive: %v", err)
	}
	defer f.Close()
	got := readAll(t, f)
	if string(got) != "target data" {
		t.Errorf("got %q through rebuilt symlink", got)
	}
}
