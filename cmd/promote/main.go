package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	nari "nari/pkg/nari"

	"go.uber.org/zap"
)

type keyboard bool

func (k keyboard) JustSelected() bool { return bool(k) }

func main() {
	configPath := flag.String("config", "", "path to config.json")
	sfen := flag.String("sfen", nari.StandardSFEN(), "starting position")
	move := flag.String("move", "", "USI move to play, e.g. 2c2b+ or 8h2b")
	premove := flag.Bool("premove", false, "queue the move as a premove before playing it")
	variant := flag.String("variant", "", "review or live (overrides config)")
	orientation := flag.String("orientation", "", "black or white (overrides config)")
	flag.Parse()

	cfg, err := nari.ResolveConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if *variant != "" {
		cfg.Variant = nari.Variant(*variant)
	}
	if *orientation != "" {
		cfg.Orientation = *orientation
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if *move == "" {
		fatal(errors.New("-move is required"))
	}
	logger, err := nari.NewLogger(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	pos, err := nari.PositionFromSFEN(*sfen)
	if err != nil {
		fatal(err)
	}
	usi, err := nari.ParseUSIMove(*move)
	if err != nil {
		fatal(err)
	}
	side, _ := nari.ParseColor(cfg.Orientation)
	host := nari.NewHeadless(pos, side)

	opts := nari.Options{Logger: logger, Keyboard: keyboard(cfg.Keyboard)}
	reloaded := make(chan *nari.Position, 1)
	if cfg.Variant == nari.VariantLive {
		opts.Resync = nari.ResyncFunc{
			Logger: logger,
			Reload: func(ctx context.Context) error {
				fresh, err := nari.PositionFromSFEN(*sfen)
				if err != nil {
					return err
				}
				reloaded <- fresh
				return nil
			},
		}
	}
	ctrl := nari.NewController(host, opts)
	defer ctrl.Close()

	p := &prompt{ctrl: ctrl, in: bufio.NewReader(os.Stdin), out: os.Stdout}
	var result *nari.Result
	done := func(r nari.Result) { result = &r }

	if *premove {
		if err := queuePremove(p, host, usi); err != nil {
			fatal(err)
		}
	}

	cand, err := host.Position().Candidate(usi)
	if err != nil {
		fatal(err)
	}
	cand.FromPremove = *premove
	if err := host.Play(usi); err != nil {
		fatal(err)
	}
	if !ctrl.Start(cand, done, *move) {
		fatal(fmt.Errorf("no piece moved to %s", usi.To))
	}
	if err := p.ask(); err != nil {
		fatal(err)
	}

	if result == nil {
		fmt.Fprintln(os.Stdout, "cancelled")
		if cfg.Variant == nari.VariantLive {
			select {
			case fresh := <-reloaded:
				host.Load(fresh)
				logger.Info("position resynced", zap.String("sfen", fresh.ToSFEN(1)))
			case <-time.After(time.Second):
				logger.Warn("resync timed out")
			}
		}
		fmt.Fprintln(os.Stdout, host.Position().ToSFEN(1))
		return
	}
	host.Commit()
	played := usi
	played.Promote = result.Promoted && !nari.IsPromoted(cand.Role)
	fmt.Fprintln(os.Stdout, played.String())
	fmt.Fprintln(os.Stdout, host.Position().ToSFEN(2))
}

// queuePremove offers the promotion of usi before the mover's turn and then
// hands the turn over so the premove can be played.
func queuePremove(p *prompt, host *nari.Headless, usi nari.USIMove) error {
	cand, err := host.Position().Candidate(usi)
	if err != nil {
		return err
	}
	cand.Premove = true
	if !p.ctrl.Start(cand, nil, nil) {
		return fmt.Errorf("no piece on %s", usi.From)
	}
	if err := p.ask(); err != nil {
		return err
	}
	if m, ok := p.ctrl.PreSelection(); ok {
		fmt.Fprintf(p.out, "pre-selected %s on %s\n", m.Piece.Role, m.Dest)
	}
	// a dismissed prompt resets the host, so look the position up again
	current := host.Position()
	piece, _ := current.PieceAt(usi.From)
	current.SetTurn(piece.Color)
	return nil
}

type prompt struct {
	ctrl *nari.Controller
	in   *bufio.Reader
	out  io.Writer
}

// ask shows the open picker, if any, and clicks the option the user names.
// Any other answer clicks outside the picker.
func (p *prompt) ask() error {
	overlay, ok := p.ctrl.Overlay()
	if !ok {
		return nil
	}
	fmt.Fprintf(p.out, "promote on %s (%s, anchored %s):\n", overlay.Dest, overlay.Color, overlay.Anchor)
	for i, opt := range overlay.Options {
		fmt.Fprintf(p.out, "  %d) %-15s top=%5.1f%% left=%5.1f%%\n", i+1, opt.Role, opt.Top, opt.Left)
	}
	fmt.Fprint(p.out, "choice (1/2, anything else cancels): ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	x, y := -1.0, -1.0
	switch strings.TrimSpace(line) {
	case "1":
		x, y = centre(overlay.Options[0])
	case "2":
		x, y = centre(overlay.Options[1])
	}
	p.ctrl.Click(x, y)
	return nil
}

func centre(opt nari.Option) (float64, float64) {
	half := 100.0 / 18
	return opt.Left + half, opt.Top + half
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
