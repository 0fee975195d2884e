/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package evalrun assembles evaluation datasets and submits them to a
// remote evaluation platform.
//
// A Builder produces one EvaluationRecord per receipt image by pairing
// ground truth with fresh predictions. The Orchestrator fans record
// building out across images, caches eval definitions so repeated runs
// with the same name and graders reuse one remote definition, and
// captures platform failures in the returned result instead of
// propagating them.
package evalrun
