// Package convert turns single field values into positional text and back.
//
// A Converter works on one leaf value and knows nothing about positions: the
// codec hands it a descriptor (width, classification, scale, format) and the
// value, and fits the result into the record. Registry.Resolve picks the
// converter of a field in this order:
//
//  1. the converter named by the descriptor's `converter` option
//  2. a nested-pattern converter supplied by the codec
//  3. a converter registered for the exact type
//  4. a built-in for the exact type
//  5. a single-value wrapper: FixedWidthMarshaler and FixedWidthUnmarshaler,
//     encoding.TextMarshaler and TextUnmarshaler, or a struct with one field
//     tagged `value`
//  6. a registered enumeration
//  7. the built-in of the type's underlying kind
//
// Numbers follow the fixed-point rule: a value is written as an unscaled
// integer at the descriptor's scale and zero padded on the left; reading
// divides by 10^scale. Integer targets hold the unscaled value already.
//
// Parse returns an invalid reflect.Value for "no value", for example when
// the text equals the placeholder, and the reader leaves the target alone.
package convert
