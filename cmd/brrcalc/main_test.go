package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cm3hal/mmio"
	"cm3hal/usart"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestTable(t *testing.T) {
	code, out, _ := runCLI(t, "-clock", "48000000", "-baud", "115200, 300", "-over", "16")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, s := range []string{"0x01a1", "115108", "-0.08%", "overflow"} {
		if !strings.Contains(out, s) {
			t.Fatalf("missing %q in:\n%s", s, out)
		}
	}

	_, out, _ = runCLI(t, "-clock", "48000000", "-baud", "115200")
	if !strings.Contains(out, "0x0340") || strings.Count(out, "\n") != 3 {
		t.Fatalf("both modes:\n%s", out)
	}
}

func TestBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"-baud", "fast"},
		{"-baud", "0"},
		{"-baud", ","},
		{"-over", "4"},
		{"-nosuchflag"},
	} {
		if code, _, _ := runCLI(t, args...); code != 2 {
			t.Fatalf("%v: exit %d, want 2", args, code)
		}
	}
}

func TestBoardAndConfig(t *testing.T) {
	code, out, _ := runCLI(t, "-board", "stm32f072-disco")
	if code != 0 || !strings.Contains(out, "console") || !strings.Contains(out, "0x01a1") || !strings.Contains(out, "8N1") {
		t.Fatalf("exit %d:\n%s", code, out)
	}
	code, out, _ = runCLI(t, "-board", "stm32l073-modbus")
	if code != 0 || !strings.Contains(out, "modbus") || !strings.Contains(out, "8E1") {
		t.Fatalf("modbus: exit %d:\n%s", code, out)
	}
	if code, _, errOut := runCLI(t, "-board", "bluepill"); code != 1 || !strings.Contains(errOut, "unknown_bus") {
		t.Fatalf("unknown board: exit %d %s", code, errOut)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "hal.json")
	os.WriteFile(good, []byte(`{"clocks":{"pclk":8000000},"ports":[{"id":"dbg","instance":"usart2","params":{"baud":9600}}]}`), 0o644)
	code, out, _ = runCLI(t, "-config", good)
	if code != 0 || !strings.Contains(out, "dbg") || !strings.Contains(out, "0x0341") {
		t.Fatalf("exit %d:\n%s", code, out)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"ports":[{"instance":"usart2","params":{"baud":300}}],"clocks":{"pclk":48000000}}`), 0o644)
	if code, _, errOut := runCLI(t, "-config", bad); code != 1 || !strings.Contains(errOut, "overflow") {
		t.Fatalf("bad config: exit %d %s", code, errOut)
	}
	if code, _, _ := runCLI(t, "-config", filepath.Join(dir, "missing.json")); code != 1 {
		t.Fatal("missing file should fail")
	}
}

func TestProbeNeedsPort(t *testing.T) {
	code, _, errOut := runCLI(t, "-board", "stm32f072-disco", "-probe", "/dev/null")
	if code != 1 || !strings.Contains(errOut, "-port") {
		t.Fatalf("exit %d %s", code, errOut)
	}
}

func TestHexImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regs.hex")
	if code, _, errOut := runCLI(t, "-board", "nucleo-f030r8", "-hex", out); code != 0 {
		t.Fatalf("exit %d %s", code, errOut)
	}
	regs := mmio.NewMemory()
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := regs.LoadIntelHex(f); err != nil {
		t.Fatalf("LoadIntelHex: %v", err)
	}
	// USART2 BRR for 115200 from a 48 MHz PCLK.
	if got := regs.Peek(usart.USART2 + 0x0c); got != 417 {
		t.Fatalf("BRR in image = %d", got)
	}

	if code, _, _ := runCLI(t, "-hex", out); code != 2 {
		t.Fatal("-hex without a config should be a usage error")
	}
}
