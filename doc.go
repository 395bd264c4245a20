// Package umqtt provides a lightweight MQTT 3.1.1 client.
//
// This package implements the MQTT Version 3.1.1 OASIS Standard:
// https://docs.oasis-open.org/mqtt/mqtt/v3.1.1/mqtt-v3.1.1.html
//
// # Features
//
//   - All 14 MQTT 3.1.1 control packet types
//   - QoS 0 and QoS 1 publishing with at-least-once bookkeeping
//   - Poll-driven inbound dispatch with a message handler callback
//   - Transport: TCP, TLS, QUIC, and HTTP CONNECT / SOCKS5 proxies
//
// # Packet Types
//
// The package provides structs for the MQTT 3.1.1 control packets:
//
//   - ConnectPacket, ConnackPacket: Connection establishment
//   - PublishPacket, PubackPacket, PubrecPacket, PubrelPacket, PubcompPacket: Message delivery
//   - SubscribePacket, SubackPacket: Topic subscription
//   - UnsubscribePacket, UnsubackPacket: Topic unsubscription
//   - PingreqPacket, PingrespPacket: Keep-alive
//   - DisconnectPacket: Connection termination
//
// Use ReadPacket and WritePacket to read/write packets from/to connections:
//
//	// Read a packet
//	pkt, n, err := umqtt.ReadPacket(conn, maxPacketSize)
//
//	// Write a packet
//	n, err := umqtt.WritePacket(conn, packet, maxPacketSize)
//
// # Client
//
// Use the high-level Client API for talking to MQTT brokers:
//
//	client := umqtt.NewClient(
//	    umqtt.WithClientID("my-client"),
//	    umqtt.WithKeepAlive(60),
//	    umqtt.WithMessageHandler(func(c *umqtt.Client, userdata any, msg umqtt.Message) error {
//	        fmt.Println(msg.Topic, msg.Payload)
//	        return nil
//	    }),
//	)
//
//	if _, err := client.Connect(ctx, "broker.example.com"); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Subscribe("sensors/#", umqtt.QoS1)
//	client.Publish("sensors/hall", []byte("21.5"), umqtt.QoS1, false)
//
// Inbound traffic is consumed by polling:
//
//	for client.Connected() {
//	    pingSeen, err := client.LoopRead()
//	    if err != nil {
//	        return err
//	    }
//	    _ = pingSeen
//	}
//
// The client takes no internal locks. Callers sharing a Client across
// goroutines must serialize access themselves.
package umqtt
