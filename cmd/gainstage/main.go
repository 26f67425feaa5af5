package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/howeecross/gainstage/internal/audio"
	"github.com/howeecross/gainstage/internal/cli"
	"github.com/howeecross/gainstage/internal/logging"
	"github.com/howeecross/gainstage/internal/pipeline"
	"github.com/howeecross/gainstage/internal/playback"
	"github.com/howeecross/gainstage/internal/replaygain"
	"github.com/howeecross/gainstage/internal/ui"
	"github.com/howeecross/gainstage/internal/volume"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface. The filter options mirror the
// stage's recognised configuration surface.
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Output  string `short:"o" type:"path" help:"Output file (single input only; default <name>-gain.wav)"`
	Play    bool   `help:"Play the filtered audio instead of writing a file"`
	Scan    bool   `help:"Estimate replaygain for the inputs and print it as tags"`
	Verbose bool   `help:"Print filter diagnostics"`

	VolumeDB           float64 `name:"volumedb" default:"0" help:"Static gain trim in dB (-200..60, -200 = silence)"`
	Volume             float64 `default:"1" help:"Volume knob (0..1, cubic perceptual mapping)"`
	ReplaygainTrack    bool    `name:"replaygain-track" help:"Apply per-track replaygain"`
	ReplaygainAlbum    bool    `name:"replaygain-album" help:"Apply per-album replaygain"`
	ReplaygainPreamp   float64 `name:"replaygain-preamp" default:"0" help:"Replaygain pre-amplification in dB (-15..15)"`
	ReplaygainClip     bool    `name:"replaygain-clip" help:"Allow replaygain to clip (disable peak protection)"`
	ReplaygainFallback float64 `name:"replaygain-fallback" default:"0" help:"Gain in dB when no replaygain metadata is found"`
	Softclip           bool    `help:"Soft-clip the float path instead of hard clamping"`
	S16                bool    `name:"s16" help:"Prefer the fixed-point 16-bit processing path"`
	Detach             bool    `help:"Drop the stage from the chain when its gain is neutral"`

	Files []string `arg:"" name:"files" help:"WAV files to process" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("gainstage"),
		kong.Description("Volume and replaygain control for audio files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}
	if cliArgs.Output != "" && len(cliArgs.Files) > 1 {
		cli.PrintError("--output requires a single input file")
		os.Exit(1)
	}

	exitCode := 0
	for _, path := range cliArgs.Files {
		if err := runFile(cliArgs, path); err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", path, err))
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// filterConfig maps the parsed flags onto the stage configuration.
func filterConfig(c *CLI) volume.Config {
	return volume.Config{
		VolumeDB:        c.VolumeDB,
		ReplayGainTrack: c.ReplaygainTrack,
		ReplayGainAlbum: c.ReplaygainAlbum,
		Preamp:          c.ReplaygainPreamp,
		AllowClipping:   c.ReplaygainClip,
		Fallback:        c.ReplaygainFallback,
		SoftClip:        c.Softclip,
		Fixed:           c.S16,
		Detach:          c.Detach,
	}
}

func runFile(c *CLI, path string) error {
	start := time.Now()

	format, frames, err := audio.ReadWAVFile(path, audio.DefaultFrameSize)
	if err != nil {
		return err
	}

	if c.Scan {
		printScan(path, replaygain.Measure(frames))
		return nil
	}

	// WAV carries no replaygain tags; a KEY=VALUE sidecar next to the
	// input stands in for container metadata.
	meta, err := replaygain.ReadSidecar(path + ".replaygain")
	if err != nil {
		return err
	}

	filter := volume.New(filterConfig(c))
	filter.SetVolume(c.Volume)
	filter.SetMetadata(meta)
	if c.Verbose {
		filter.Logf = func(msg string, args ...any) {
			fmt.Fprintf(os.Stderr, "[volume] "+msg+"\n", args...)
		}
	}

	chain := pipeline.NewChain(sinkFor(c), filter)
	working, err := chain.Reconfigure(format)
	if err != nil {
		return err
	}

	if c.Play {
		return playFile(path, chain, filter, working, frames)
	}

	inPeak := replaygain.Measure(frames).TrackPeak
	for i := range frames {
		frames[i] = audio.Convert(frames[i], working)
		frames[i], err = chain.Push(frames[i])
		if err != nil {
			return err
		}
	}
	if _, err := chain.Push(nil); err != nil {
		return err
	}

	outPath := c.Output
	if outPath == "" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		outPath = base + "-gain.wav"
	}
	if err := audio.WriteWAVFile(outPath, working, frames); err != nil {
		return err
	}

	state := filter.State()
	fmt.Print(logging.Render(logging.FileReport{
		InputPath:     path,
		OutputPath:    outPath,
		InFormat:      format.String(),
		OutFormat:     working.String(),
		Bypassed:      chain.ActiveStages() == 0,
		ReplayGain:    state.ReplayGain(),
		EffectiveGain: filter.EffectiveGain(),
		VolumeDB:      c.VolumeDB,
		InputPeak:     inPeak,
		OutputPeak:    replaygain.Measure(frames).TrackPeak,
		Elapsed:       time.Since(start),
	}))
	return nil
}

// sinkFor models the downstream consumer's format constraints: the WAV
// writer takes anything this pipeline produces, playback needs a channel
// count the speaker can represent.
func sinkFor(c *CLI) pipeline.Sink {
	return pipeline.SinkFunc(func(f audio.Format) bool {
		if c.Play {
			return f.Channels >= 1 && f.Channels <= 2
		}
		return true
	})
}

func playFile(path string, chain *pipeline.Chain, filter *volume.Filter, working audio.Format, frames []*audio.Frame) error {
	for i := range frames {
		frames[i] = audio.Convert(frames[i], working)
	}
	streamer, err := playback.NewStreamer(working, frames, chain.Push)
	if err != nil {
		return err
	}

	sr := streamer.SampleRate()
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	// Volume changes and position reads happen from the UI goroutine;
	// the speaker lock serialises them against the playback callback.
	controls := ui.Controls{
		Volume: func() float64 {
			speaker.Lock()
			defer speaker.Unlock()
			return filter.Volume()
		},
		SetVolume: func(v float64) {
			speaker.Lock()
			defer speaker.Unlock()
			filter.SetVolume(v)
		},
		Position: func() (time.Duration, time.Duration) {
			speaker.Lock()
			defer speaker.Unlock()
			return sr.D(streamer.Position()), sr.D(streamer.Len())
		},
	}

	p := tea.NewProgram(ui.NewModel(filepath.Base(path), controls))
	go func() {
		<-done
		p.Send(ui.DoneMsg{})
	}()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}

	return streamer.Err()
}

// printScan emits the estimate in tag form, ready to redirect into a
// <file>.replaygain sidecar.
func printScan(path string, info replaygain.Info) {
	fmt.Printf("# %s\n", path)
	fmt.Printf("%s=%.2f dB\n", replaygain.TagTrackGain, info.TrackGain)
	fmt.Printf("%s=%.6f\n", replaygain.TagTrackPeak, info.TrackPeak)
	fmt.Printf("%s=%.2f dB\n", replaygain.TagAlbumGain, info.AlbumGain)
	fmt.Printf("%s=%.6f\n", replaygain.TagAlbumPeak, info.AlbumPeak)
}
