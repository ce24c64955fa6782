package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/najoast/kipc/ipc"
	"github.com/najoast/kipc/pm"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=x.y.z"
var version = "0.1.0"

func newSizesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "Show the envelope layout on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "total size:\t%d\n", ipc.TotalSize)
			fmt.Fprintf(w, "header size:\t%d\n", ipc.HeaderSize)
			fmt.Fprintf(w, "payload size:\t%d\n", ipc.PayloadSize)
			fmt.Fprintf(w, "type width:\t%d\n", ipc.MessageTypeSize)
			fmt.Fprintf(w, "identifier width:\t%d\n", pm.ProcessIdentifierSize)
			fmt.Fprintf(w, "byte order:\t%s\n", ipc.HostByteOrder())
			fmt.Fprintf(w, "kernel:\t%s (id %d)\n", a.cfg.Kernel.Name, a.cfg.Kernel.ID)
			return w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show kmsg version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "kmsg version %s\n", version)
			return nil
		},
	}
}
