package normalize

import (
	"os"
	"path/filepath"
	"testing"
)

func writeResult(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestUnitConversion(t *testing.T) {
	if got := CommToKB("online_comm_bytes", 2048); got != 2.0 {
		t.Fatalf("bytes to KB: got %v", got)
	}
	if got := CommToKB("comm_bytes_kb", 12.5); got != 12.5 {
		t.Fatalf("KB passthrough: got %v", got)
	}
	if got := CommToKB("comm_MB", 2); got != 2048 {
		t.Fatalf("MB to KB: got %v", got)
	}
	if got := TimeToMillis("online_time_s", 1.5); got != 1500 {
		t.Fatalf("seconds to ms: got %v", got)
	}
	if got := TimeToMillis("online_time_ms", 1.5); got != 1.5 {
		t.Fatalf("ms passthrough: got %v", got)
	}
}

func TestFileName(t *testing.T) {
	k := NetworkKey{Bidders: 25, Domain: 1000, RTTms: 20}
	obsidian := System{Pattern: "network_benchmark_{bidders}_{domain}_{rtt}ms.csv"}
	if got := obsidian.FileName(k); got != "network_benchmark_25_1000_20ms.csv" {
		t.Fatalf("unexpected name: %s", got)
	}
	mpspdz := System{Pattern: "mpspdz_network_{bidders}_{rtt}ms.csv"}
	if mpspdz.UsesDomain() {
		t.Fatal("pattern without {domain} should not use it")
	}
	if got := mpspdz.FileName(k); got != "mpspdz_network_25_20ms.csv" {
		t.Fatalf("unexpected name: %s", got)
	}
}

func TestLoadAveragesRowsAndFiles(t *testing.T) {
	dir := t.TempDir()
	sys := System{
		Name:    "Addax",
		Dir:     dir,
		Pattern: "addax_network_{bidders}_{domain}_{rtt}ms*.csv",
		TimeCol: "online_time_s",
		CommCol: "comm_bytes_kb",
	}
	writeResult(t, dir, "addax_network_100_1000_20ms.csv", "run,online_time_s,comm_bytes_kb\n1,1.0,10\n2,2.0,20\n")
	writeResult(t, dir, "addax_network_100_1000_20ms_b.csv", "run,online_time_s,comm_bytes_kb\n3,3.0,30\n")

	cell, ok, warnings := Load(sys, NetworkKey{Bidders: 100, Domain: 1000, RTTms: 20})
	if !ok || len(warnings) != 0 {
		t.Fatalf("expected a cell, got ok=%v warnings=%v", ok, warnings)
	}
	if cell.TimeMs != 2000 || cell.CommKB != 20 {
		t.Fatalf("unexpected cell: %+v", cell)
	}
}

func TestLoadAbsentNotZero(t *testing.T) {
	dir := t.TempDir()
	sys := System{Name: "Obsidian", Dir: dir, Pattern: "network_benchmark_{bidders}_{domain}_{rtt}ms.csv", TimeCol: "online_time_ms", CommCol: "online_comm_bytes"}
	writeResult(t, dir, "network_benchmark_25_1000_20ms.csv", "online_time_ms,online_comm_bytes\n")
	writeResult(t, dir, "network_benchmark_50_1000_20ms.csv", "online_time_ms\n5\n")
	writeResult(t, dir, "network_benchmark_100_1000_20ms.csv", "online_time_ms,online_comm_bytes\n0,0\n")

	for _, bidders := range []int{25, 50, 400} {
		if _, ok, _ := Load(sys, NetworkKey{Bidders: bidders, Domain: 1000, RTTms: 20}); ok {
			t.Fatalf("bidders=%d should be absent", bidders)
		}
	}
	cell, ok, _ := Load(sys, NetworkKey{Bidders: 100, Domain: 1000, RTTms: 20})
	if !ok || cell != (Cell{}) {
		t.Fatalf("measured zeros should be present: %+v (%v)", cell, ok)
	}
}

func TestLoadSkipsMalformedRow(t *testing.T) {
	dir := t.TempDir()
	sys := System{Name: "Obsidian", Dir: dir, Pattern: "n_{bidders}.csv", TimeCol: "online_time_ms", CommCol: "online_comm_bytes"}
	writeResult(t, dir, "n_25.csv", "online_time_ms,online_comm_bytes\n4,1024\nbad,1024\n8,3072\n")

	cell, ok, warnings := Load(sys, NetworkKey{Bidders: 25})
	if !ok || len(warnings) != 1 || warnings[0].Line != 3 {
		t.Fatalf("unexpected result: ok=%v warnings=%v", ok, warnings)
	}
	if cell.TimeMs != 6 || cell.CommKB != 2 {
		t.Fatalf("unexpected cell: %+v", cell)
	}
}

func TestBuildAndRows(t *testing.T) {
	dir := t.TempDir()
	obsidian := System{Name: "Obsidian", Dir: filepath.Join(dir, "o"), Pattern: "network_benchmark_{bidders}_{domain}_{rtt}ms.csv", TimeCol: "online_time_ms", CommCol: "online_comm_bytes"}
	mpspdz := System{Name: "MP-SPDZ", Dir: filepath.Join(dir, "m"), Pattern: "mpspdz_network_{bidders}_{rtt}ms.csv", TimeCol: "online_time_s", CommCol: "comm_bytes_kb"}
	writeResult(t, obsidian.Dir, "network_benchmark_100_1000_20ms.csv", "online_time_ms,online_comm_bytes\n10,2048\n")
	writeResult(t, mpspdz.Dir, "mpspdz_network_100_20ms.csv", "online_time_s,comm_bytes_kb\n0.5,300\n")

	sweep := Sweep{RTTs: []int{20}, Domains: []int{100, 1000}, Bidders: []int{50, 100}, FixedDomain: 1000, FixedBidders: 100, CommRTT: 20}
	keys := sweep.Keys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 distinct keys, got %v", keys)
	}

	table := Build([]System{obsidian, mpspdz}, keys)
	if table.Len() != 3 {
		t.Fatalf("expected 3 present cells, got %d", table.Len())
	}
	if _, ok := table.Get("Obsidian", NetworkKey{Bidders: 50, Domain: 1000, RTTms: 20}); ok {
		t.Fatal("missing file must be absent")
	}
	// MP-SPDZ has no domain in its file names, so every domain reads the same file.
	for _, d := range []int{100, 1000} {
		cell, ok := table.Get("MP-SPDZ", NetworkKey{Bidders: 100, Domain: d, RTTms: 20})
		if !ok || cell.TimeMs != 500 || cell.CommKB != 300 {
			t.Fatalf("domain %d: unexpected cell %+v (%v)", d, cell, ok)
		}
	}

	rows := table.Rows()
	if rows[0].System != "Obsidian" || rows[1].System != "MP-SPDZ" || rows[1].Key.Domain != 100 {
		t.Fatalf("unexpected row order: %+v", rows)
	}
}

func TestKeysIncludeCommRTT(t *testing.T) {
	sweep := Sweep{RTTs: []int{40}, Domains: []int{100}, Bidders: []int{25}, FixedDomain: 1000, FixedBidders: 100, CommRTT: 20}
	keys := sweep.Keys()
	if len(keys) != 4 {
		t.Fatalf("expected 4 keys, got %v", keys)
	}
	want := NetworkKey{Bidders: 25, Domain: 1000, RTTms: 20}
	found := false
	for _, k := range keys {
		found = found || k == want
	}
	if !found {
		t.Fatalf("expected %v in %v", want, keys)
	}

	dir := t.TempDir()
	sys := System{Name: "Obsidian", Dir: dir, Pattern: "network_benchmark_{bidders}_{domain}_{rtt}ms.csv", TimeCol: "online_time_ms", CommCol: "online_comm_bytes"}
	writeResult(t, dir, "network_benchmark_25_1000_20ms.csv", "online_time_ms,online_comm_bytes\n10,2048\n")
	table := Build([]System{sys}, keys)
	if cell, ok := table.Get("Obsidian", want); !ok || cell.CommKB != 2 {
		t.Fatalf("expected the commRTT cell to load, got %+v (%v)", cell, ok)
	}
}
