package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/najoast/kipc/capture"
	"github.com/najoast/kipc/ipc"
	"github.com/najoast/kipc/pm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// parsePID accepts "kernel", "<kernel-id>:<local>" or a raw number.
func parsePID(s string) (pm.ProcessIdentifier, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "kernel") {
		return pm.Kernel, nil
	}
	if k, l, ok := strings.Cut(s, ":"); ok {
		kernelID, err := strconv.ParseUint(k, 0, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid kernel id %q: %w", k, err)
		}
		local, err := strconv.ParseUint(l, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid local number %q: %w", l, err)
		}
		return pm.NewProcessIdentifier(uint8(kernelID), uint32(local))
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid process identifier %q: %w", s, err)
	}
	return pm.ProcessIdentifier(v), nil
}

func parsePayload(hexPayload, text string) (ipc.Payload, error) {
	var payload ipc.Payload
	var data []byte
	switch {
	case hexPayload != "" && text != "":
		return payload, fmt.Errorf("--payload-hex and --payload-text are mutually exclusive")
	case hexPayload != "":
		b, err := hex.DecodeString(strings.Join(strings.Fields(hexPayload), ""))
		if err != nil {
			return payload, fmt.Errorf("invalid payload hex: %w", err)
		}
		data = b
	default:
		data = []byte(text)
	}
	if len(data) > ipc.PayloadSize {
		return payload, fmt.Errorf("payload is %d bytes, at most %d fit", len(data), ipc.PayloadSize)
	}
	copy(payload[:], data)
	return payload, nil
}

func newEncodeCmd(a *app) *cobra.Command {
	var (
		typ         string
		source      string
		destination string
		payloadHex  string
		payloadText string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build an envelope and print it as hex, or append it to a capture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := ipc.ParseMessageType(typ)
			if err != nil {
				return err
			}
			src, err := parsePID(source)
			if err != nil {
				return fmt.Errorf("invalid --source: %w", err)
			}
			dst, err := parsePID(destination)
			if err != nil {
				return fmt.Errorf("invalid --destination: %w", err)
			}
			payload, err := parsePayload(payloadHex, payloadText)
			if err != nil {
				return err
			}

			m := ipc.New(src, dst, mt, payload)
			a.logger.Debug("encoded message", zap.Stringer("message", m))

			if out == "" {
				b := m.ToBytes()
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b[:]))
				return nil
			}

			f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open capture file: %w", err)
			}
			defer f.Close()
			if err := capture.NewWriter(f).Write(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "appended %s to %s\n", m, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "ipc", "message type: interrupt, exception, ipc, sched, ikc")
	cmd.Flags().StringVar(&source, "source", "kernel", "source process identifier")
	cmd.Flags().StringVar(&destination, "destination", "kernel", "destination process identifier")
	cmd.Flags().StringVar(&payloadHex, "payload-hex", "", "payload bytes as hex")
	cmd.Flags().StringVar(&payloadText, "payload-text", "", "payload bytes as text")
	cmd.Flags().StringVar(&out, "out", "", "append to this capture file instead of printing")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a hex-encoded envelope",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := hex.DecodeString(strings.Join(strings.Fields(strings.Join(args, " ")), ""))
			if err != nil {
				return fmt.Errorf("invalid hex: %w", err)
			}
			m, err := ipc.Parse(b)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format([]Record{newRecord(0, m)}))
			return nil
		},
	}
}
