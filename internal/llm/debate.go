package llm

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/davidhbaek/aidebate/internal/prompt"
)

// Debate connects every provider, prints the options banner and then each
// connected service's argument. Provider failures never abort the run; they
// are printed in place of the missing output.
type Debate struct {
	Providers []Provider
	// Concurrent issues the debate calls in parallel. Output order is the
	// same either way.
	Concurrent bool
	Logger     zerolog.Logger
}

// Run only returns an error if the output can't be written.
func (d *Debate) Run(ctx context.Context, w io.Writer, topic, background string) error {
	out := bufio.NewWriter(w)

	services := d.connect(ctx, out)

	prompt.WriteOptions(out)
	fmt.Fprintf(out, "Debate Topic: %s\n\n", topic)

	opinions := d.collect(ctx, services, topic, background)
	for i, service := range services {
		fmt.Fprintf(out, "====== %s says ======\n", service.Name())
		fmt.Fprintln(out, opinions[i])
		fmt.Fprintln(out)
	}

	return out.Flush()
}

func (d *Debate) connect(ctx context.Context, out io.Writer) []Service {
	services := make([]Service, 0, len(d.Providers))

	for _, p := range d.Providers {
		service, err := p.Connect(ctx)
		if err != nil {
			d.Logger.Warn().Err(err).Str("provider", p.Label).Msg("connection failed")
			fmt.Fprintf(out, "Failed to connect to %s: %v\n", p.Label, err)
			continue
		}

		d.Logger.Debug().Str("provider", p.Label).Str("service", service.Name()).Msg("connected")
		services = append(services, service)
	}

	return services
}

func (d *Debate) collect(ctx context.Context, services []Service, topic, background string) []string {
	opinions := make([]string, len(services))

	if !d.Concurrent {
		for i, service := range services {
			opinions[i] = d.ask(ctx, service, topic, background)
		}
		return opinions
	}

	// ask never fails, so the group is only used to wait
	g, ctx := errgroup.WithContext(ctx)
	for i, service := range services {
		i, service := i, service
		g.Go(func() error {
			opinions[i] = d.ask(ctx, service, topic, background)
			return nil
		})
	}
	_ = g.Wait()

	return opinions
}

func (d *Debate) ask(ctx context.Context, service Service, topic, background string) string {
	opinion, err := service.Debate(ctx, topic, background)
	if err != nil {
		d.Logger.Warn().Err(err).Str("service", service.Name()).Msg("debate call failed")
		return fmt.Sprintf("Call failed: %v", err)
	}

	return opinion
}
