// Package formats decodes and encodes Quake-family triangle models.
//
// Supported formats:
//   - QIM: native round-trip format, written by the model's own Sync methods
//   - MD2: Quake II models with byte-quantized vertices (read and write)
//   - MD2F: MD2 variant with float vertices (read)
//   - MDL: Quake models with embedded 8-bit skins and frame groups (read)
//   - MD3: Quake III multi-surface models with packed normals (read)
//
// Loader is the entry point: it picks a decoder by format tag, resolves the
// texture files a model references, expands indexed skins to RGBA and logs
// structural anomalies. The PCX decoder used for MD2 skins is also
// registered with the image package.
package formats
