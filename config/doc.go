// SPDX-License-Identifier: MIT

// Package config loads run parameters for the actionet pipeline from YAML.
//
// A file only needs the keys it changes; everything else keeps the defaults of
// package multires:
//
//	k_min: 2
//	k_max: 30
//	max_iter: 100
//	min_delta: 1e-100
//	specificity_th: -3
//	min_cells_per_archetype: 2
//	unification_th: 0
//	thread_no: 0
//	return_w: false
//	log_level: info
//
// Environment variables ACTIONET_THREAD_NO and ACTIONET_LOG_LEVEL override the
// file. Config.Options converts a validated Config into multires options.
package config
