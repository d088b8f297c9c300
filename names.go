package boneview

import (
	"strconv"
	"strings"
)

// boneAlias maps a canonical bone name to the raw mesh names that denote it.
type boneAlias struct {
	bone    string
	aliases []string
}

// boneAliases is ordered: earlier rows win when several aliases match as
// substrings. Ulna and Radius are handled before this table.
var boneAliases = []boneAlias{
	{"Skull", []string{"skull", "head", "cranium"}},
	{"Femur", []string{"femur", "thigh", "thigh_bone", "femur_l", "femur_r", "femur_left", "femur_right"}},
	{"Humerus", []string{"humerus", "upper_arm", "arm", "humerus_l", "humerus_r", "humerus_left", "humerus_right"}},
	{"Ribcage", []string{"ribcage", "ribs", "rib_cage"}},
	{"Vertebrae", []string{"vertebrae", "spine", "spinal", "vertebra", "backbone"}},
	{"Sternum", []string{"sternum", "breastbone"}},
	{"Hipbone", []string{"hipbone", "pelvis", "hip_bone"}},
	{"Metacarpals", []string{"metacarpals", "hand_bones", "metacarpal_l", "metacarpal_r", "metacarpal_left", "metacarpal_right"}},
	{"Phalanges", []string{"phalanges", "fingers", "toes", "phalanges_l", "phalanges_r", "phalanges_left", "phalanges_right"}},
	{"Tibia", []string{"tibia", "shin_bone", "shin", "tibia_l", "tibia_r", "tibia_left", "tibia_right"}},
	{"Scapula", []string{"scapula", "shoulder_blade", "scapula_l", "scapula_r", "scapula_left", "scapula_right"}},
	{"Clavicle", []string{"clavicle", "collar_bone", "clavicle_l", "clavicle_r", "clavicle_left", "clavicle_right"}},
	{"Patella", []string{"patella", "kneecap", "patella_l", "patella_r", "patella_left", "patella_right"}},
	{"Carpals", []string{"carpals", "wrist_bones", "carpal_l", "carpal_r", "carpal_left", "carpal_right"}},
	{"Metatarsals", []string{"metatarsals", "foot_bones", "metatarsal_l", "metatarsal_r", "metatarsal_left", "metatarsal_right"}},
	{"Skeletal_System", []string{"skeleton", "full_body"}},
	{"Tarsals", []string{"tarsals", "ankle_bones", "tarsal_l", "tarsal_r", "tarsal_left", "tarsal_right"}},
	{"Pubis", []string{"pubis", "pubic_bone"}},
}

// unnamedPrefix marks meshes that never map to a bone.
const unnamedPrefix = "Bone_"

// MatchBoneName returns the canonical bone name for a raw mesh name, or ""
// when nothing matches. Names starting with "Bone_" never match.
func MatchBoneName(raw string) string {
	if raw == "" || strings.HasPrefix(raw, unnamedPrefix) {
		return ""
	}
	lower := strings.ToLower(raw)

	// The forearm bones are easily confused with each other and with "arm".
	if strings.Contains(lower, "ulna") || (strings.Contains(lower, "pinky") && !strings.Contains(lower, "radius")) {
		return "Ulna"
	}
	if strings.Contains(lower, "radius") || (strings.Contains(lower, "thumb") && !strings.Contains(lower, "ulna")) {
		return "Radius"
	}

	for _, row := range boneAliases {
		for _, alias := range row.aliases {
			if lower == alias || strings.Contains(lower, alias) {
				return row.bone
			}
		}
	}
	return ""
}

// NormalizeMeshName returns the canonical bone name for raw, the raw name
// itself when nothing matches, or "Bone_<id>" when raw is empty.
func NormalizeMeshName(raw string, id uint32) string {
	if bone := MatchBoneName(raw); bone != "" {
		return bone
	}
	if raw == "" {
		return unnamedPrefix + strconv.FormatUint(uint64(id), 10)
	}
	return raw
}

// CanonicalBoneNames returns every canonical name the alias table knows,
// including Ulna and Radius.
func CanonicalBoneNames() []string {
	names := make([]string, 0, len(boneAliases)+2)
	for _, row := range boneAliases {
		names = append(names, row.bone)
	}
	return append(names, "Radius", "Ulna")
}
