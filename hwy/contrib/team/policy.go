// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package team

// Policy is a league of LeagueSize teams with TeamSize lanes each.
type Policy struct {
	LeagueSize int
	TeamSize   int
}

// NewPolicy returns the smallest league of teamSize-lane teams covering n
// elements. The last team may be partially populated; n == 0 gives an empty
// league. It panics if teamSize <= 0.
func NewPolicy(n, teamSize int) Policy {
	if teamSize <= 0 {
		panic("team: team size must be positive")
	}
	return Policy{
		LeagueSize: (max(n, 0) + teamSize - 1) / teamSize,
		TeamSize:   teamSize,
	}
}

// Lanes returns the total number of lanes in the league.
func (p Policy) Lanes() int {
	return p.LeagueSize * p.TeamSize
}

// Member identifies one lane of one team.
type Member struct {
	league int
	rank   int
	size   int
}

// LeagueRank returns the index of the member's team.
func (m Member) LeagueRank() int { return m.league }

// TeamRank returns the lane index within the team.
func (m Member) TeamRank() int { return m.rank }

// TeamSize returns the number of lanes per team.
func (m Member) TeamSize() int { return m.size }

// Index returns the global lane index LeagueRank*TeamSize + TeamRank.
func (m Member) Index() int { return m.league*m.size + m.rank }

// Phase is one step of a team kernel, called once per lane.
type Phase func(m Member)

// runLockstep runs every phase as a loop over the team's lanes. Finishing
// the loop for phase k before starting phase k+1 is the team barrier.
func runLockstep(p Policy, league int, phases []Phase) {
	for _, phase := range phases {
		for rank := range p.TeamSize {
			phase(Member{league: league, rank: rank, size: p.TeamSize})
		}
	}
}
