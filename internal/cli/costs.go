/*
Copyright 2025 Lumina Contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"github.com/spf13/cobra"
)

func newCostsCommand(s *session) *cobra.Command {
	opts := NewCostsOptions()
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Plan a reservation in every region, cheapest first",
		Example: `  # 214 CPUs for a week of business hours
  capacity-planner costs --hours 7 --cpus 214

  # as many CPUs as $115 buys for a day
  capacity-planner costs --hours 24 --price 115

  # both constraints, after a price change in us-east
  capacity-planner costs --hours 7 --cpus 214 --price 95 --set us-east/8xlarge=1.2`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCosts(cmd, s, opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func runCosts(cmd *cobra.Command, s *session, opts *CostsOptions) error {
	if err := applyMutations(s, opts); err != nil {
		return err
	}

	resp, err := s.alloc.Costs(opts.Request(cmd.Flags()))
	if err != nil {
		return err
	}
	return renderCosts(s.out, s.output, resp)
}

// applyMutations applies --set then --remove to the session's catalog.
// Parsing errors are reported before anything is changed.
func applyMutations(s *session, opts *CostsOptions) error {
	type setting struct {
		ref   instanceRef
		price float64
	}

	settings := make([]setting, 0, len(opts.Set))
	for _, raw := range opts.Set {
		ref, price, err := parsePriceSetting(raw)
		if err != nil {
			return err
		}
		settings = append(settings, setting{ref: ref, price: price})
	}
	removals := make([]instanceRef, 0, len(opts.Remove))
	for _, raw := range opts.Remove {
		ref, err := parseInstanceRef(raw)
		if err != nil {
			return err
		}
		removals = append(removals, ref)
	}

	for _, st := range settings {
		if err := s.alloc.UpsertInstance(st.ref.Region, st.ref.InstanceType, st.price); err != nil {
			return err
		}
	}
	for _, ref := range removals {
		if err := s.alloc.RemoveInstance(ref.Region, ref.InstanceType); err != nil {
			return err
		}
	}
	return nil
}
