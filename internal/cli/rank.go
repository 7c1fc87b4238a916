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

func newRankCommand(s *session) *cobra.Command {
	opts := NewRankOptions()
	cmd := &cobra.Command{
		Use:                   "rank",
		Short:                 "Show each region's instance types ordered by value",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(s, opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func runRank(s *session, opts *RankOptions) error {
	prices := s.alloc.Prices()
	regions := opts.Regions
	if len(regions) == 0 {
		regions = prices.Regions()
	}

	rankings := make([]regionRanking, 0, len(regions))
	for _, region := range regions {
		ranked, err := s.alloc.Ranking(region)
		if err != nil {
			return err
		}
		rankings = append(rankings, regionRanking{Region: region, InstanceTypes: ranked})
	}
	return renderRankings(s.out, s.output, rankings, prices, s.alloc.CPUs())
}
