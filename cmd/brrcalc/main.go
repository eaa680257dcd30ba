// Command brrcalc prints USART baud rate register values for a kernel
// clock, validates HAL configurations and probes host serial links.
//
//	brrcalc -clock 48000000 -baud 9600,115200
//	brrcalc -board stm32f072-disco
//	brrcalc -config hal.json -probe /dev/ttyUSB0 -port console
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"cm3hal/bus"
	"cm3hal/config"
	"cm3hal/errcode"
	"cm3hal/hal"
	"cm3hal/host/serialprobe"
	"cm3hal/logx"
	"cm3hal/mmio"
	"cm3hal/types"
	"cm3hal/usart"
	"cm3hal/x/mathx"
)

const defaultBauds = "9600,19200,38400,57600,115200,230400,460800,921600"

type options struct {
	clock   uint
	bauds   []uint32
	mode    string
	cfgPath string
	board   string
	probe   string
	hexOut  string
	port    string
	count   int
	timeout time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brrcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		o       options
		bauds   string
		verbose bool
	)
	fs.UintVar(&o.clock, "clock", 48_000_000, "USART kernel clock in Hz")
	fs.StringVar(&bauds, "baud", defaultBauds, "comma separated baud rates")
	fs.StringVar(&o.mode, "over", "both", "oversampling: 16, 8 or both")
	fs.StringVar(&o.cfgPath, "config", "", "HAL JSON file to validate")
	fs.StringVar(&o.board, "board", "", "built-in board to validate ("+strings.Join(config.Boards(), ", ")+")")
	fs.StringVar(&o.hexOut, "hex", "", "write the register image of -config/-board as Intel HEX")
	fs.StringVar(&o.probe, "probe", "", "host serial device for a loopback test")
	fs.StringVar(&o.port, "port", "", "port id whose settings -probe uses")
	fs.IntVar(&o.count, "n", 64, "loopback pattern length")
	fs.DurationVar(&o.timeout, "timeout", 2*time.Second, "loopback timeout")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if verbose {
		logx.SetLogLevel(slog.LevelDebug)
	}

	var err error
	if o.bauds, err = parseBauds(bauds); err != nil {
		fmt.Fprintln(stderr, "brrcalc:", err)
		return 2
	}
	if o.mode != "16" && o.mode != "8" && o.mode != "both" {
		fmt.Fprintln(stderr, "brrcalc: -over must be 16, 8 or both")
		return 2
	}

	var cfg *config.HALConfig
	if o.cfgPath != "" || o.board != "" {
		c, err := loadConfig(o)
		if err != nil {
			fmt.Fprintln(stderr, "brrcalc:", err)
			return 1
		}
		cfg = &c
		regs := mmio.NewMemory()
		if err := printConfig(stdout, cfg, regs); err != nil {
			fmt.Fprintln(stderr, "brrcalc:", err)
			return 1
		}
		if o.hexOut != "" {
			if err := writeHex(o.hexOut, regs); err != nil {
				fmt.Fprintln(stderr, "brrcalc:", err)
				return 1
			}
		}
	} else {
		if o.hexOut != "" {
			fmt.Fprintln(stderr, "brrcalc: -hex needs -config or -board")
			return 2
		}
		printTable(stdout, uint32(o.clock), o.bauds, o.mode)
	}

	if o.probe != "" {
		if err := probe(stdout, o, cfg); err != nil {
			fmt.Fprintln(stderr, "brrcalc:", err)
			return 1
		}
	}
	return 0
}

func parseBauds(s string) ([]uint32, error) {
	var out []uint32
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil || v == 0 {
			return nil, fmt.Errorf("bad baud %q", f)
		}
		out = append(out, uint32(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no baud rates")
	}
	return out, nil
}

func loadConfig(o options) (config.HALConfig, error) {
	if o.board != "" {
		return config.ForBoard(o.board)
	}
	raw, err := os.ReadFile(o.cfgPath)
	if err != nil {
		return config.HALConfig{}, err
	}
	return config.Load(raw)
}

// printTable prints one row per baud and oversampling mode.
func printTable(w io.Writer, clock uint32, bauds []uint32, mode string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "baud\tover\tBRR\tactual\terror\t\n")
	for _, b := range bauds {
		for _, over8 := range modes(mode) {
			over := "16"
			if over8 {
				over = "8"
			}
			div, err := usart.CheckDivisor(clock, b, over8)
			if err != nil {
				fmt.Fprintf(tw, "%d\t%s\t-\t-\t%s\t\n", b, over, errcode.Of(err))
				continue
			}
			actual := usart.ActualBaud(clock, div, over8)
			fmt.Fprintf(tw, "%d\t%s\t%#06x\t%d\t%s\t\n", b, over, div, actual, percent(usart.ErrorPPM(b, actual)))
		}
	}
	tw.Flush()
}

func modes(m string) []bool {
	switch m {
	case "16":
		return []bool{false}
	case "8":
		return []bool{true}
	}
	return []bool{false, true}
}

func percent(ppm int64) string { return strconv.FormatFloat(float64(ppm)/1e4, 'f', 2, 64) + "%" }

// printConfig applies cfg to a scratch register file and reports what
// each port would be programmed with.
func printConfig(w io.Writer, cfg *config.HALConfig, regs *mmio.Memory) error {
	ports, err := cfg.Apply(regs)
	if err != nil {
		return err
	}
	want := make(map[string]uint32, len(cfg.Ports))
	for _, pc := range cfg.Ports {
		want[pc.ID] = pc.Params.Baud
		if want[pc.ID] == 0 {
			want[pc.ID] = usart.DefaultBaud
		}
	}

	infos, err := queryInfo(ports)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\tinstance\tformat\tover\tBRR\tbaud\terror\n")
	for _, id := range slices.Sorted(maps.Keys(ports)) {
		info := infos[id]
		over := "16"
		if info.Over8 {
			over = "8"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%#06x\t%d\t%s\n",
			id, info.Bus, info.Format, over, info.BRR, info.Baud, percent(usart.ErrorPPM(want[id], info.Baud)))
	}
	return tw.Flush()
}

// queryInfo serves ports on a private bus and asks each for its info
// the way a remote client would.
func queryInfo(ports map[string]*usart.Port) (map[string]types.SerialInfo, error) {
	b := bus.NewBus(len(ports) + 2)
	conn := b.NewConnection("brrcalc")
	state := conn.Subscribe(hal.StateTopic())
	defer conn.Unsubscribe(state)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	done := make(chan struct{})
	go func() {
		hal.New(b.NewConnection("hal"), ports).Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	select {
	case <-state.Channel():
	case <-ctx.Done():
		return nil, errcode.Wrap(errcode.Timeout, "brrcalc.hal", ctx.Err())
	}

	out := make(map[string]types.SerialInfo, len(ports))
	for id := range ports {
		reply, err := conn.RequestWait(ctx, conn.NewMessage(hal.ControlTopic(id, "info"), nil, false))
		if err != nil {
			return nil, err
		}
		info, ok := reply.Payload.(types.SerialInfo)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected info reply %v", id, reply.Payload)
		}
		out[id] = info
	}
	return out, nil
}

func writeHex(path string, regs *mmio.Memory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := regs.DumpIntelHex(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func probe(w io.Writer, o options, cfg *config.HALConfig) error {
	const maxPattern = 4096
	params := usart.Params{Baud: o.bauds[0]}
	if cfg != nil {
		found := false
		for _, pc := range cfg.Ports {
			if pc.ID == o.port || (o.port == "" && len(cfg.Ports) == 1) {
				params, found = pc.Params, true
				break
			}
		}
		if !found {
			return fmt.Errorf("-probe needs -port naming one of the configured ports")
		}
	}

	rw, err := serialprobe.Open(o.probe, params, 0)
	if err != nil {
		return err
	}
	defer rw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	res, err := serialprobe.Loopback(ctx, rw, serialprobe.Pattern(mathx.Clamp(o.count, 1, maxPattern), params.DataBits))
	fmt.Fprintf(w, "probe %s: sent=%d received=%d mismatch=%d elapsed=%s\n",
		o.probe, res.Sent, res.Received, res.Mismatch, res.Elapsed.Round(time.Millisecond))
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("loopback mismatch at byte %d", res.Mismatch)
	}
	return nil
}
