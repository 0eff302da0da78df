package contracts

import (
	"sort"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
)

// InferContracts links every cross-repository call to the endpoint it targets.
// The producer service is "<METHOD> <path>" and the consumer service is the
// calling file. Calls inside one repository and calls with no matching
// endpoint produce nothing. Output order is stable for a given input.
func InferContracts(repos []models.RepoInput) []models.Contract {
	type owner struct {
		repo    string
		version string
	}
	producers := make(map[string][]owner)
	for _, repo := range repos {
		for _, ep := range repo.Analysis.Endpoints {
			key := ep.Method + " " + ep.Path
			list := producers[key]
			if len(list) > 0 && list[len(list)-1].repo == repo.ID {
				continue
			}
			producers[key] = append(list, owner{repo: repo.ID, version: repo.Version})
		}
	}

	seen := make(map[string]bool)
	var out []models.Contract
	for _, repo := range repos {
		for _, call := range repo.Analysis.APICalls {
			key := call.Method + " " + call.Endpoint
			for _, p := range producers[key] {
				if p.repo == repo.ID {
					continue
				}
				c := models.Contract{
					Producer: models.ServiceRef{RepoID: p.repo, Service: key, Version: p.version},
					Consumer: models.ServiceRef{RepoID: repo.ID, Service: call.File, Version: repo.Version},
					Version:  p.version,
				}
				id := ContractID(c.Producer, c.Consumer)
				if seen[id] {
					continue
				}
				seen[id] = true
				c.ID = id
				out = append(out, c)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
