package cli

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashrafosman/localscribe/internal/meeting"
	"github.com/ashrafosman/localscribe/internal/output"
	"github.com/ashrafosman/localscribe/internal/relay"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var deviceID int
	var promptID string
	var relayURL string

	cmd := &cobra.Command{
		Use:   "record <meeting name>",
		Short: "Record a meeting and summarize it",
		Long:  "Starts a recording session, streams the live transcript to the terminal, and on Ctrl+C stops, summarizes, and files the results.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(deps, args[0], deviceID, promptID, relayURL)
		},
	}

	cmd.Flags().IntVarP(&deviceID, "device", "d", -1, "Audio device id (-1 for system default)")
	cmd.Flags().StringVarP(&promptID, "prompt", "p", "meeting", "Summary prompt type")
	cmd.Flags().StringVar(&relayURL, "relay", "", "WebSocket URL to mirror session events to")

	return cmd
}

func runRecord(deps *Dependencies, name string, deviceID int, promptID, relayURL string) error {
	f := output.NewFormatter(os.Stdout)
	svc := deps.App.Meetings

	sinks := []meeting.Sink{terminalSink(f)}
	if relayURL != "" {
		r, err := relay.Dial(context.Background(), relayURL)
		if err != nil {
			return err
		}
		defer r.Close()
		sinks = append(sinks, r)
	}

	id, err := svc.Start(name, deviceID, promptID, sinks...)
	if err != nil {
		return err
	}
	f.RecordingStarted(id)

	done, err := svc.Done(id)
	if err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	select {
	case <-interrupt:
		f.Stopping()
		if err := svc.Stop(id); err != nil {
			return err
		}
		select {
		case <-done:
		case <-time.After(5 * time.Minute):
			f.Warning("timed out waiting for processing to finish")
		}
	case <-done:
	}

	status, err := svc.Status(id)
	if err != nil {
		return err
	}
	if status == meeting.StatusComplete {
		if sess, ok := svc.Session(id); ok {
			transcript, summary := sess.FinalPaths()
			f.Complete(transcript, summary)
		}
	}

	return nil
}

// terminalSink renders session events for an interactive terminal:
// transcription fragments stream inline, everything else gets a status
// line.
func terminalSink(f *output.Formatter) meeting.Sink {
	return meeting.SinkFunc(func(meetingID, status, message string) {
		switch status {
		case "transcription":
			f.Transcription(message)
		case string(meeting.StatusError):
			f.Error(message)
		default:
			f.Status(message)
		}
	})
}
