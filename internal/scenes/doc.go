// Package scenes abstracts the shot-boundary detection engine.
//
// A Detector takes a normalized video plus a content-change threshold and
// returns ordered boundary pairs in seconds. The production implementation
// runs PySceneDetect through uvx and parses its list-scenes CSV artifact,
// which is kept under the scenes/ storage area for inspection. Keyframe
// extraction for detected boundaries lives in the pipeline, not here.
package scenes
