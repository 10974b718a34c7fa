package drugbank

import (
	"strings"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/pkg/types/common"
)

// Entity is everything extracted from one top-level drug element.
type Entity struct {
	Record       drug.Record
	Categories   []drug.CategoryLink
	Pathways     []drug.PathwayLink
	Properties   []drug.PropertyObservation
	Interactions []drug.Interaction
}

// extractEntity flattens one drug element. Missing optional fields become
// null or empty; nothing here fails.
func extractEntity(n *node, sep string) Entity {
	var rec drug.Record

	if v, ok := n.attr("type"); ok {
		rec.Type = common.StrOrNull(v)
	}
	if v, ok := n.attr("created"); ok {
		rec.Created = common.StrOrNull(v)
	}
	for _, id := range n.children("drugbank-id") {
		if p, _ := id.attr("primary"); p == "true" {
			rec.PrimaryID = common.StrOrNull(id.text())
			break
		}
	}

	rec.Name = common.StrOrNull(n.value("name"))
	rec.Description = common.StrOrNull(n.value("description"))
	rec.CASNumber = common.StrOrNull(n.value("cas-number"))
	rec.UNII = common.StrOrNull(n.value("unii"))
	rec.State = common.StrOrNull(n.value("state"))

	rec.Groups = joinTexts(n.path("groups").children("group"), sep)
	rec.AffectedOrganisms = joinTexts(n.path("affected-organisms").children("affected-organism"), sep)
	rec.FoodInteractions = joinTexts(n.path("food-interactions").children("food-interaction"), sep)

	for i, tag := range drug.NarrativeTags {
		rec.Narrative[i] = common.StrOrNull(n.firstDescendant(tag).text())
	}

	if c := n.child("classification"); c != nil {
		rec.Classification = drug.Classification{
			Description:  common.StrOrNull(c.value("description")),
			DirectParent: common.StrOrNull(c.value("direct-parent")),
			Kingdom:      common.StrOrNull(c.value("kingdom")),
			Superclass:   common.StrOrNull(c.value("superclass")),
			Class:        common.StrOrNull(c.value("class")),
			Subclass:     common.StrOrNull(c.value("subclass")),
		}
	}

	if seq := n.path("sequences", "sequence"); seq != nil {
		text := seq.text()
		if format, ok := seq.attr("format"); ok && format != "" {
			text = format + ": " + text
		}
		rec.Sequence = common.StrOrNull(text)
	}

	if weights := n.descendants("molecular-weight"); len(weights) == 1 {
		rec.MolecularWeight = weights[0].text()
	}

	id := rec.ID()
	e := Entity{Record: rec}

	for _, c := range n.path("categories").children("category") {
		e.Categories = append(e.Categories, drug.CategoryLink{
			DrugID:   id,
			Category: c.value("category"),
			MeshID:   c.value("mesh-id"),
		})
	}

	for _, p := range n.path("pathways").children("pathway") {
		e.Pathways = append(e.Pathways, drug.PathwayLink{
			DrugID:   id,
			SMPDBID:  p.value("smpdb-id"),
			Name:     p.value("name"),
			Category: p.value("category"),
			Enzymes:  enzymes(p.child("enzymes"), sep),
		})
	}

	for _, p := range n.descendants("property") {
		e.Properties = append(e.Properties, drug.PropertyObservation{
			DrugID: id,
			Kind:   p.value("kind"),
			Value:  p.value("value"),
			Source: p.value("source"),
		})
	}

	for _, i := range n.path("drug-interactions").children("drug-interaction") {
		e.Interactions = append(e.Interactions, drug.Interaction{
			DrugID:      id,
			TargetID:    i.value("drugbank-id"),
			TargetName:  i.value("name"),
			Description: i.value("description"),
		})
	}

	return e
}

// enzymes joins the uniprot ids of an enzymes element, falling back to its
// own text when it has no id children.
func enzymes(n *node, sep string) string {
	if n == nil {
		return ""
	}
	if ids := n.children("uniprot-id"); len(ids) > 0 {
		return joinTexts(ids, sep)
	}
	return n.text()
}

func joinTexts(nodes []*node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := n.text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}
