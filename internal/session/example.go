package session

import "mindmap-backend/internal/domain"

// ExampleMap returns the built-in demo map so the app is explorable before
// any source is supplied.
func ExampleMap() domain.MindMapData {
	return domain.MindMapData{
		Nodes: []domain.Node{
			{ID: "physics_center", Label: "Physics Explained", Group: domain.GroupCenter, Shape: "ellipse", Value: 10, Description: "Core concepts of modern physics at a glance."},
			{ID: "newton_main", Label: "Newtonian Mechanics", Group: domain.GroupMain, Shape: "dot", Value: 8, Description: "Classical mechanics as described by Isaac Newton."},
			{ID: "newton_force", Label: "Force (F=ma)", Group: domain.GroupDetail, Shape: "dot", Value: 5, Description: "Force equals mass times acceleration."},
			{ID: "newton_gravity", Label: "Universal Gravitation", Group: domain.GroupDetail, Shape: "dot", Value: 6, Description: "Masses attract each other; inverse-square law."},
			{ID: "energy_main", Label: "Energy & Work", Group: domain.GroupMain, Shape: "dot", Value: 8, Description: "Concepts of energy, its forms, and work."},
			{ID: "energy_conservation", Label: "Conservation of Energy", Group: domain.GroupDetail, Shape: "dot", Value: 6, Description: "Energy cannot be created or destroyed, only converted."},
			{ID: "relativity_main", Label: "Relativity (Einstein)", Group: domain.GroupMain, Shape: "dot", Value: 9, Description: "Einstein's theories of special and general relativity."},
			{ID: "relativity_emc2", Label: "E=mc²", Group: domain.GroupDetail, Shape: "dot", Value: 7, Description: "Mass-energy equivalence."},
			{ID: "qm_main", Label: "Quantum Mechanics", Group: domain.GroupMain, Shape: "dot", Value: 9, Description: "Physics of the very small (atoms, particles)."},
			{ID: "qm_superposition", Label: "Superposition", Group: domain.GroupDetail, Shape: "dot", Value: 6, Description: "Particles can exist in multiple states at once until measured."},
			{ID: "qm_uncertainty", Label: "Uncertainty Principle", Group: domain.GroupDetail, Shape: "dot", Value: 6, Description: "Cannot simultaneously know exact position and momentum."},
		},
		Edges: []domain.Edge{
			{ID: "e_pc_newton", From: "physics_center", To: "newton_main", Label: "includes", Directed: true},
			{ID: "e_newton_force", From: "newton_main", To: "newton_force", Label: "defines", Directed: true},
			{ID: "e_newton_gravity", From: "newton_main", To: "newton_gravity", Label: "describes", Directed: true},
			{ID: "e_pc_energy", From: "physics_center", To: "energy_main", Label: "includes", Directed: true},
			{ID: "e_energy_conservation", From: "energy_main", To: "energy_conservation", Label: "governed by", Directed: true},
			{ID: "e_pc_relativity", From: "physics_center", To: "relativity_main", Label: "includes", Directed: true},
			{ID: "e_relativity_emc2", From: "relativity_main", To: "relativity_emc2", Label: "famous for", Directed: true},
			{ID: "e_pc_qm", From: "physics_center", To: "qm_main", Label: "includes", Directed: true},
			{ID: "e_qm_superposition", From: "qm_main", To: "qm_superposition", Label: "features", Directed: true},
			{ID: "e_qm_uncertainty", From: "qm_main", To: "qm_uncertainty", Label: "features", Directed: true},
		},
	}
}
