// Package services contains the graph visualization pipeline: building the
// unified graph from source collections, deriving ego networks, sorting
// nodes and pruning oversized graphs. Stages run synchronously on the
// caller's goroutine; the only shared mutable state is the result cache.
package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"go.uber.org/zap"

	"github.com/familiarcat/candid-graph-engine/domain/core/aggregates"
	"github.com/familiarcat/candid-graph-engine/domain/core/entities"
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
	"github.com/familiarcat/candid-graph-engine/pkg/config"
)

// Base node sizes per kind. Authorities scale by hiring-power tier and
// skills grow with demand.
const (
	companyBaseSize   = 20.0
	authorityBaseSize = 15.0
	positionBaseSize  = 12.0
	jobSeekerBaseSize = 10.0
	skillBaseSize     = 8.0

	defaultNodeSize     = 10.0
	defaultLinkStrength = 1.0
	baseLinkOpacity     = 0.7
	baseNodeOpacity     = 1.0

	syntheticLinkStrength = 0.5

	// A node touching fewer authoritative links than this counts as
	// under-connected for the densification safeguard.
	underConnectedDegree = 2
)

// GraphBuilder maps the six source collections into a unified node/link
// graph, repairing broken cross-references by skipping the affected links
// and densifying visually sparse graphs with flagged synthetic edges.
type GraphBuilder struct {
	cfg    config.BuilderConfig
	logger *zap.Logger
}

// NewGraphBuilder creates a graph builder.
func NewGraphBuilder(cfg config.BuilderConfig, logger *zap.Logger) *GraphBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphBuilder{cfg: cfg, logger: logger}
}

// Build constructs the full graph. Data-quality problems never fail the
// build: unresolvable references skip link creation and malformed numeric
// fields fall back to defaults.
func (b *GraphBuilder) Build(ctx context.Context, collections *entities.Collections) *aggregates.Graph {
	graph := aggregates.NewGraph()
	if collections == nil {
		graph.RecomputeStats()
		return graph
	}

	index := b.addNodes(graph, collections)
	b.addLinks(graph, collections, index)
	b.densify(graph, index)

	graph.RecomputeStats()
	b.logger.Debug("built full graph",
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("links", len(graph.Links)),
		zap.Int("synthetic", graph.Stats.SyntheticLinkCount),
	)
	return graph
}

// buildIndex maps bare collection keys and display names to node ids so
// every cross-reference shape resolves through one lookup path.
type buildIndex struct {
	companies   map[string]valueobjects.NodeID
	authorities map[string]valueobjects.NodeID
	jobSeekers  map[string]valueobjects.NodeID
	positions   map[string]valueobjects.NodeID
	skills      map[string]valueobjects.NodeID
	skillNames  map[string]valueobjects.NodeID
	skillIDs    []valueobjects.NodeID
}

func (b *GraphBuilder) addNodes(graph *aggregates.Graph, c *entities.Collections) *buildIndex {
	index := &buildIndex{
		companies:   make(map[string]valueobjects.NodeID, len(c.Companies)),
		authorities: make(map[string]valueobjects.NodeID, len(c.Authorities)),
		jobSeekers:  make(map[string]valueobjects.NodeID, len(c.JobSeekers)),
		positions:   make(map[string]valueobjects.NodeID, len(c.Positions)),
		skills:      make(map[string]valueobjects.NodeID, len(c.Skills)),
		skillNames:  make(map[string]valueobjects.NodeID, len(c.Skills)),
	}

	for _, company := range c.Companies {
		if id, ok := b.addNode(graph, valueobjects.NodeTypeCompany, company, companyBaseSize); ok {
			index.companies[company.Key] = id
		}
	}
	for _, authority := range c.Authorities {
		size := authorityBaseSize * authority.HiringPower.SizeFactor()
		if id, ok := b.addNode(graph, valueobjects.NodeTypeAuthority, authority, size); ok {
			index.authorities[authority.Key] = id
		}
	}
	for _, seeker := range c.JobSeekers {
		if id, ok := b.addNode(graph, valueobjects.NodeTypeJobSeeker, seeker, jobSeekerBaseSize); ok {
			index.jobSeekers[seeker.Key] = id
		}
	}
	for _, skill := range c.Skills {
		size := skillBaseSize * (1 + math.Log1p(math.Max(0, skill.Demand)))
		if id, ok := b.addNode(graph, valueobjects.NodeTypeSkill, skill, size); ok {
			index.skills[skill.Key] = id
			index.skillNames[skill.Name] = id
			index.skillIDs = append(index.skillIDs, id)
		}
	}
	for _, position := range c.Positions {
		if id, ok := b.addNode(graph, valueobjects.NodeTypePosition, position, positionBaseSize); ok {
			index.positions[position.Key] = id
		}
	}
	return index
}

func (b *GraphBuilder) addNode(graph *aggregates.Graph, nodeType valueobjects.NodeType, entity entities.Entity, size float64) (valueobjects.NodeID, bool) {
	id := entities.NodeIDFor(nodeType, entity.EntityKey())
	if id == "" {
		b.logger.Debug("skipping record without a key", zap.String("type", nodeType.String()))
		return "", false
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		size = defaultNodeSize
	}
	name := entity.DisplayName()
	if name == "" {
		name = id.Key()
	}
	added := graph.AddNode(&aggregates.Node{
		ID:      id,
		Type:    nodeType,
		Name:    name,
		Size:    size,
		Color:   nodeType.Color(),
		Opacity: baseNodeOpacity,
		Payload: entity,
	})
	if !added {
		b.logger.Warn("duplicate node id skipped", zap.String("id", id.String()))
		return "", false
	}
	return id, true
}

func (b *GraphBuilder) addLinks(graph *aggregates.Graph, c *entities.Collections, index *buildIndex) {
	for _, authority := range c.Authorities {
		authorityID := index.authorities[authority.Key]
		if authorityID == "" {
			continue
		}
		if companyID, ok := resolveInto(authority.CompanyRef, index.companies); ok {
			b.link(graph, &aggregates.Link{
				Source:   companyID,
				Target:   authorityID,
				Type:     valueobjects.LinkTypeEmployment,
				Strength: authority.HiringPower.EmploymentStrength(),
			})
		}
		for _, ref := range authority.SkillPreferences {
			if skillID, ok := resolveSkill(ref, index); ok {
				b.link(graph, &aggregates.Link{
					Source:   authorityID,
					Target:   skillID,
					Type:     valueobjects.LinkTypePreference,
					Strength: authority.HiringPower.PreferenceStrength(),
				})
			}
		}
	}

	for _, position := range c.Positions {
		positionID := index.positions[position.Key]
		if positionID == "" {
			continue
		}
		if authorityID, ok := resolveInto(position.AuthorityRef, index.authorities); ok {
			b.link(graph, &aggregates.Link{
				Source:   authorityID,
				Target:   positionID,
				Type:     valueobjects.LinkTypeHiring,
				Strength: defaultLinkStrength,
			})
		}
		if companyID, ok := resolveInto(position.CompanyRef, index.companies); ok {
			b.link(graph, &aggregates.Link{
				Source:   positionID,
				Target:   companyID,
				Type:     valueobjects.LinkTypeOffers,
				Strength: defaultLinkStrength,
			})
		}
		for _, ref := range position.RequiredSkills {
			if skillID, ok := resolveSkill(ref, index); ok {
				b.link(graph, &aggregates.Link{
					Source:   positionID,
					Target:   skillID,
					Type:     valueobjects.LinkTypeRequires,
					Strength: defaultLinkStrength,
				})
			}
		}
	}

	for _, seeker := range c.JobSeekers {
		seekerID := index.jobSeekers[seeker.Key]
		if seekerID == "" {
			continue
		}
		for _, skillName := range seeker.Skills {
			skillID, ok := resolveSkill(skillName, index)
			if !ok {
				continue
			}
			b.link(graph, &aggregates.Link{
				Source:   seekerID,
				Target:   skillID,
				Type:     valueobjects.LinkTypeHas,
				Strength: seeker.SkillLevel(skillName) / 10,
			})
		}
	}

	for _, match := range c.Matches {
		seekerID, seekerOK := resolveInto(match.JobSeekerRef, index.jobSeekers)
		authorityID, authorityOK := resolveInto(match.AuthorityRef, index.authorities)
		if !seekerOK || !authorityOK {
			b.logger.Debug("skipping match with unresolvable endpoints",
				zap.String("match", match.Key))
			continue
		}
		score := match.ScoreOrDefault()
		b.link(graph, &aggregates.Link{
			Source:   seekerID,
			Target:   authorityID,
			Type:     valueobjects.LinkTypeMatch,
			Strength: score / 100,
			Label:    fmt.Sprintf("%d%%", int(math.Round(score))),
			Status:   match.Status,
		})
	}
}

// link applies strength/width defaults and adds the link, dropping it
// silently when an endpoint is missing from the graph.
func (b *GraphBuilder) link(graph *aggregates.Graph, link *aggregates.Link) {
	if link.Strength <= 0 || math.IsNaN(link.Strength) || math.IsInf(link.Strength, 0) {
		link.Strength = defaultLinkStrength
	}
	link.Width = math.Max(1, link.Strength)
	link.Opacity = baseLinkOpacity
	link.Color = link.Type.Color()
	graph.AddLink(link)
}

// densify adds up to MaxSyntheticPerNode flagged skill edges per
// under-connected seeker/authority node when the graph is visually sparse.
// Synthetic edges never count toward authoritative statistics.
func (b *GraphBuilder) densify(graph *aggregates.Graph, index *buildIndex) {
	if len(graph.Nodes) <= 1 || len(index.skillIDs) == 0 {
		return
	}
	if graph.Density() >= b.cfg.DensityThreshold {
		return
	}

	added := 0
	for _, node := range graph.Nodes {
		var linkType valueobjects.LinkType
		switch node.Type {
		case valueobjects.NodeTypeJobSeeker:
			linkType = valueobjects.LinkTypeHas
		case valueobjects.NodeTypeAuthority:
			linkType = valueobjects.LinkTypePreference
		default:
			continue
		}
		if graph.Degree(node.ID, false) >= underConnectedDegree {
			continue
		}

		// Deterministic sampling: start from a hash of the node id and
		// walk the skill list, skipping already-linked skills.
		start := int(hashID(node.ID) % uint64(len(index.skillIDs)))
		linked := linkedSkills(graph, node.ID)
		synthetic := 0
		for i := 0; i < len(index.skillIDs) && synthetic < b.cfg.MaxSyntheticPerNode; i++ {
			skillID := index.skillIDs[(start+i)%len(index.skillIDs)]
			if linked[skillID] {
				continue
			}
			if graph.AddLink(&aggregates.Link{
				Source:    node.ID,
				Target:    skillID,
				Type:      linkType,
				Strength:  syntheticLinkStrength,
				Synthetic: true,
				Color:     "#DEE2E6",
				Width:     1,
				Opacity:   baseLinkOpacity * 0.5,
			}) {
				linked[skillID] = true
				synthetic++
				added++
			}
		}
	}
	if added > 0 {
		b.logger.Debug("densified sparse graph", zap.Int("synthetic_links", added))
	}
}

func linkedSkills(graph *aggregates.Graph, id valueobjects.NodeID) map[valueobjects.NodeID]bool {
	linked := make(map[valueobjects.NodeID]bool)
	for _, link := range graph.Adjacency()[id] {
		if other, ok := link.Other(id); ok {
			linked[other] = true
		}
	}
	return linked
}

// resolveInto normalizes a cross-reference and looks it up in a key map.
func resolveInto(ref any, keys map[string]valueobjects.NodeID) (valueobjects.NodeID, bool) {
	key, ok := valueobjects.ResolveReference(ref)
	if !ok {
		return "", false
	}
	id, found := keys[key]
	return id, found
}

// resolveSkill resolves a skill reference by collection key first, then by
// display name; job seekers commonly list skills by name.
func resolveSkill(ref any, index *buildIndex) (valueobjects.NodeID, bool) {
	key, ok := valueobjects.ResolveReference(ref)
	if !ok {
		return "", false
	}
	if id, found := index.skills[key]; found {
		return id, true
	}
	if id, found := index.skillNames[key]; found {
		return id, true
	}
	return "", false
}

func hashID(id valueobjects.NodeID) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}
