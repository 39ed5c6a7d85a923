package phrase

import "slices"

// assignments maps stages 1-4 to the slots they reveal. The order inside a
// stage is the order in which that stage hands letters out.
var assignments = map[int][]int{
	1: {0, 6, 2, 9, 4, 5},
	2: {1, 3},
	3: {7, 8},
	4: {10},
}

// ProposalStage reveals the whole phrase as its scripted finale instead of
// owning slots of its own.
const ProposalStage = 5

// Assigned returns the slot indices stage is responsible for, in reveal
// order. The proposal stage gets every slot; stages without an assignment
// get nil.
func Assigned(stage int) []int {
	if stage == ProposalStage {
		return Default().All()
	}
	return slices.Clone(assignments[stage])
}

// AssignedStages returns the stages that own slots, ascending.
func AssignedStages() []int {
	return []int{1, 2, 3, 4}
}
